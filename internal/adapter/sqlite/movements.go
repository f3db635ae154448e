package sqlite

import (
	"context"
	"fmt"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Store implements domain.MovementRepository.
var _ domain.MovementRepository = (*Store)(nil)

const movementColumns = `id, vehicle_id, movement_type, direction, agreement_no, date,
	out_date_time, out_from, out_customer, out_driver, out_mileage, out_fuel_level, out_notes,
	in_date_time, in_to, in_customer, in_driver, in_mileage, in_fuel_level, in_notes,
	created_at`

// insertMovement writes one append-only movement row. Movements are
// never updated after this.
func insertMovement(ctx context.Context, ex execer, m domain.Movement) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO movements (`+movementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.VehicleID, m.MovementType, string(m.Direction), m.AgreementNo, fmtTime(m.Date),
		fmtTime(m.OutDateTime), m.OutFrom, m.OutCustomer, m.OutDriver, m.OutMileage, m.OutFuelLevel, m.OutNotes,
		fmtTime(m.InDateTime), m.InTo, m.InCustomer, m.InDriver, m.InMileage, m.InFuelLevel, m.InNotes,
		fmtTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting movement: %w", err)
	}
	return nil
}

func (s *Store) ListMovements(ctx context.Context, vehicleID string, filter domain.MovementFilter) ([]domain.Movement, int64, error) {
	where := `WHERE vehicle_id = ?`
	args := []any{vehicleID}

	if filter.From != nil {
		where += ` AND date >= ?`
		args = append(args, fmtTime(*filter.From))
	}
	if filter.To != nil {
		where += ` AND date <= ?`
		args = append(args, fmtTime(*filter.To))
	}
	if filter.MovementType != "" {
		where += ` AND movement_type = ?`
		args = append(args, filter.MovementType)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movements `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM movements ` + where +
		` ORDER BY date DESC, out_date_time DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		var m domain.Movement
		var direction, date, outDT, inDT, createdAt string
		err := rows.Scan(&m.ID, &m.VehicleID, &m.MovementType, &direction, &m.AgreementNo, &date,
			&outDT, &m.OutFrom, &m.OutCustomer, &m.OutDriver, &m.OutMileage, &m.OutFuelLevel, &m.OutNotes,
			&inDT, &m.InTo, &m.InCustomer, &m.InDriver, &m.InMileage, &m.InFuelLevel, &m.InNotes,
			&createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning movement row: %w", err)
		}
		m.Direction = domain.Direction(direction)
		m.Date = parseTime(date)
		m.OutDateTime = parseTime(outDT)
		m.InDateTime = parseTime(inDT)
		m.CreatedAt = parseTime(createdAt)
		movements = append(movements, m)
	}
	return movements, total, rows.Err()
}
