package sqlite

import (
	"context"
	"fmt"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Store implements domain.TransitionStore.
var _ domain.TransitionStore = (*Store)(nil)

// ApplyTransition persists a transition as a single atomic unit: every
// pending document is inserted in order, then the vehicle row is
// updated with its optimistic version check. Reservation inserts
// re-check the overlap invariant inside this same transaction, so the
// check and the write happen under one lock. Any failure rolls the
// whole unit back: no partial documents, no partial status update.
func (s *Store) ApplyTransition(ctx context.Context, v domain.Vehicle, docs []domain.PendingDocument) ([]domain.CreatedDoc, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transition: %w", err)
	}
	defer tx.Rollback()

	created := make([]domain.CreatedDoc, 0, len(docs))
	for _, doc := range docs {
		switch d := doc.(type) {
		case *domain.Reservation:
			if err := insertReservation(ctx, tx, *d); err != nil {
				return nil, err
			}
		case *domain.Movement:
			if err := insertMovement(ctx, tx, *d); err != nil {
				return nil, err
			}
		case *domain.ServiceJob:
			if err := insertServiceJob(ctx, tx, *d); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported pending document %T", doc)
		}
		created = append(created, domain.CreatedDoc{Type: doc.DocKind(), ID: docID(doc)})
	}

	if err := updateVehicle(ctx, tx, v); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transition: %w", err)
	}
	return created, nil
}

func docID(doc domain.PendingDocument) string {
	switch d := doc.(type) {
	case *domain.Reservation:
		return d.ID
	case *domain.Movement:
		return d.ID
	case *domain.ServiceJob:
		return d.ID
	default:
		return ""
	}
}
