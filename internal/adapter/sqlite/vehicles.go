package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Store implements domain.VehicleRepository.
var _ domain.VehicleRepository = (*Store)(nil)

const vehicleColumns = `id, license_plate, chassis_number, vin, make, model, model_year,
	color, fuel_type, transmission, status, driver, location, last_odometer,
	current_agreement, version, created_at, updated_at`

func (s *Store) Create(ctx context.Context, v domain.Vehicle) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vehicles (`+vehicleColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.LicensePlate, v.ChassisNumber, v.VIN, v.Make, v.Model, v.ModelYear,
		v.Color, v.FuelType, v.Transmission, string(v.Status), v.Driver, v.Location,
		v.LastOdometer, v.CurrentAgreement, v.Version,
		fmtTime(v.CreatedAt), fmtTime(v.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.InvalidDocumentError{
				Reason: fmt.Sprintf("license plate %q is already registered", v.LicensePlate),
			}
		}
		return fmt.Errorf("inserting vehicle: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	return scanVehicle(s.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id,
	))
}

func (s *Store) GetByPlate(ctx context.Context, plate string) (domain.Vehicle, error) {
	return scanVehicle(s.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE license_plate = ?`, plate,
	))
}

func (s *Store) List(ctx context.Context, filter domain.ListFilter) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	var args []any

	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY license_plate ASC`
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
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicleRows(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Update writes the vehicle with an optimistic version check. The row is
// matched on (id, version); zero affected rows against an existing id
// means a concurrent writer won, reported as *domain.ConflictError.
func (s *Store) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if err := updateVehicle(ctx, s.db, v); err != nil {
		return domain.Vehicle{}, err
	}
	return s.GetByID(ctx, v.ID)
}

func updateVehicle(ctx context.Context, ex execer, v domain.Vehicle) error {
	result, err := ex.ExecContext(ctx,
		`UPDATE vehicles SET
			license_plate = ?, chassis_number = ?, vin = ?, make = ?, model = ?,
			model_year = ?, color = ?, fuel_type = ?, transmission = ?, status = ?,
			driver = ?, location = ?, last_odometer = ?, current_agreement = ?,
			version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		v.LicensePlate, v.ChassisNumber, v.VIN, v.Make, v.Model,
		v.ModelYear, v.Color, v.FuelType, v.Transmission, string(v.Status),
		v.Driver, v.Location, v.LastOdometer, v.CurrentAgreement,
		time.Now().UTC().Format(timeFormat),
		v.ID, v.Version,
	)
	if err != nil {
		return fmt.Errorf("updating vehicle: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := ex.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM vehicles WHERE id = ?`, v.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking vehicle existence: %w", err)
		}
		if exists == 0 {
			return domain.ErrVehicleNotFound
		}
		return &domain.ConflictError{VehicleID: v.ID}
	}
	return nil
}

func scanVehicle(row *sql.Row) (domain.Vehicle, error) {
	var v domain.Vehicle
	var status, createdAt, updatedAt string

	err := row.Scan(&v.ID, &v.LicensePlate, &v.ChassisNumber, &v.VIN, &v.Make,
		&v.Model, &v.ModelYear, &v.Color, &v.FuelType, &v.Transmission, &status,
		&v.Driver, &v.Location, &v.LastOdometer, &v.CurrentAgreement, &v.Version,
		&createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Vehicle{}, domain.ErrVehicleNotFound
		}
		return domain.Vehicle{}, fmt.Errorf("scanning vehicle: %w", err)
	}

	v.Status = domain.Status(status)
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return v, nil
}

func scanVehicleRows(rows *sql.Rows) (domain.Vehicle, error) {
	var v domain.Vehicle
	var status, createdAt, updatedAt string

	err := rows.Scan(&v.ID, &v.LicensePlate, &v.ChassisNumber, &v.VIN, &v.Make,
		&v.Model, &v.ModelYear, &v.Color, &v.FuelType, &v.Transmission, &status,
		&v.Driver, &v.Location, &v.LastOdometer, &v.CurrentAgreement, &v.Version,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("scanning vehicle row: %w", err)
	}

	v.Status = domain.Status(status)
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return v, nil
}
