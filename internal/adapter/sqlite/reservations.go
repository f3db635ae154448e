package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Store implements domain.ReservationRepository.
var _ domain.ReservationRepository = (*Store)(nil)

const reservationColumns = `id, vehicle_id, customer, start_time, end_time,
	pickup_location, drop_location, status, created_at, updated_at`

// insertReservation validates the booking, re-checks the overlap
// invariant against committed data, and writes the row. Callers inside
// the transition transaction pass the transaction as ex, so the check
// and the insert happen under the same lock.
func insertReservation(ctx context.Context, ex execer, r domain.Reservation) error {
	if err := r.Validate(); err != nil {
		return err
	}

	overlapping, err := activeOverlapping(ctx, ex, r.VehicleID, r.StartTime, r.EndTime, r.ID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		first := overlapping[0]
		return &domain.OverlapError{
			VehicleID:     r.VehicleID,
			ReservationID: first.ID,
			Start:         first.StartTime,
			End:           first.EndTime,
		}
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO reservations (`+reservationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.VehicleID, r.Customer, fmtTime(r.StartTime), fmtTime(r.EndTime),
		r.PickupLocation, r.DropLocation, string(r.Status),
		fmtTime(r.CreatedAt), fmtTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}
	return nil
}

func (s *Store) CreateReservation(ctx context.Context, r domain.Reservation) error {
	return insertReservation(ctx, s.db, r)
}

func (s *Store) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	return scanReservation(s.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id,
	))
}

func (s *Store) ListReservationsByVehicle(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE vehicle_id = ? ORDER BY start_time DESC`, vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (s *Store) SetReservationStatus(ctx context.Context, id string, status domain.ReservationStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(timeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("updating reservation status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// ActiveOverlapping returns active reservations intersecting
// [start, end] for the vehicle. Boundaries are inclusive.
func (s *Store) ActiveOverlapping(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) ([]domain.Reservation, error) {
	return activeOverlapping(ctx, s.db, vehicleID, start, end, excludeID)
}

func activeOverlapping(ctx context.Context, ex execer, vehicleID string, start, end time.Time, excludeID string) ([]domain.Reservation, error) {
	rows, err := ex.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE vehicle_id = ?
		   AND id != ?
		   AND status IN (?, ?)
		   AND start_time <= ?
		   AND end_time >= ?
		 ORDER BY start_time ASC`,
		vehicleID, excludeID,
		string(domain.ReservationNew), string(domain.ReservationConfirmed),
		fmtTime(end), fmtTime(start),
	)
	if err != nil {
		return nil, fmt.Errorf("querying overlapping reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func scanReservation(row *sql.Row) (domain.Reservation, error) {
	var r domain.Reservation
	var start, end, status, createdAt, updatedAt string

	err := row.Scan(&r.ID, &r.VehicleID, &r.Customer, &start, &end,
		&r.PickupLocation, &r.DropLocation, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("scanning reservation: %w", err)
	}

	r.StartTime = parseTime(start)
	r.EndTime = parseTime(end)
	r.Status = domain.ReservationStatus(status)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return r, nil
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		var r domain.Reservation
		var start, end, status, createdAt, updatedAt string
		err := rows.Scan(&r.ID, &r.VehicleID, &r.Customer, &start, &end,
			&r.PickupLocation, &r.DropLocation, &status, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}
		r.StartTime = parseTime(start)
		r.EndTime = parseTime(end)
		r.Status = domain.ReservationStatus(status)
		r.CreatedAt = parseTime(createdAt)
		r.UpdatedAt = parseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
