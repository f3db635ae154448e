package sqlite

import (
	"context"
	"fmt"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Store implements domain.WorkflowSource.
var _ domain.WorkflowSource = (*Store)(nil)

// Edges returns the dynamically configured workflow edges for a
// document type. An empty result means no workflow is defined and the
// static transition table applies.
func (s *Store) Edges(ctx context.Context, documentType string) ([]domain.WorkflowEdge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_type, from_state, action, to_state, role
		 FROM workflow_edges WHERE document_type = ? ORDER BY id ASC`, documentType,
	)
	if err != nil {
		return nil, fmt.Errorf("querying workflow edges: %w", err)
	}
	defer rows.Close()

	var edges []domain.WorkflowEdge
	for rows.Next() {
		var e domain.WorkflowEdge
		var from, to string
		if err := rows.Scan(&e.DocumentType, &from, &e.Action, &to, &e.Role); err != nil {
			return nil, fmt.Errorf("scanning workflow edge: %w", err)
		}
		e.FromState = domain.Status(from)
		e.ToState = domain.Status(to)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ReplaceWorkflow swaps the configured edge set for a document type in
// one transaction.
func (s *Store) ReplaceWorkflow(ctx context.Context, documentType string, edges []domain.WorkflowEdge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning workflow replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM workflow_edges WHERE document_type = ?`, documentType,
	); err != nil {
		return fmt.Errorf("clearing workflow edges: %w", err)
	}
	for _, e := range edges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workflow_edges (document_type, from_state, action, to_state, role)
			 VALUES (?, ?, ?, ?, ?)`,
			documentType, string(e.FromState), e.Action, string(e.ToState), e.Role,
		); err != nil {
			return fmt.Errorf("inserting workflow edge: %w", err)
		}
	}
	return tx.Commit()
}
