package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Store implements domain.CustomerRepository.
var _ domain.CustomerRepository = (*Store)(nil)

const customerColumns = `id, full_name, first_name, last_name, passport_number,
	passport_expiry, passport_issuer, date_of_birth, nationality, gender,
	scan_image_url, created_at, updated_at`

func (s *Store) CreateCustomer(ctx context.Context, c domain.Customer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (`+customerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FullName, c.FirstName, c.LastName, c.PassportNumber,
		c.PassportExpiry, c.PassportIssuer, c.DateOfBirth, c.Nationality, c.Gender,
		c.ScanImageURL, fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	var c domain.Customer
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.FullName, &c.FirstName, &c.LastName, &c.PassportNumber,
		&c.PassportExpiry, &c.PassportIssuer, &c.DateOfBirth, &c.Nationality, &c.Gender,
		&c.ScanImageURL, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("scanning customer: %w", err)
	}

	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE customers SET
			full_name = ?, first_name = ?, last_name = ?, passport_number = ?,
			passport_expiry = ?, passport_issuer = ?, date_of_birth = ?,
			nationality = ?, gender = ?, scan_image_url = ?, updated_at = ?
		 WHERE id = ?`,
		c.FullName, c.FirstName, c.LastName, c.PassportNumber,
		c.PassportExpiry, c.PassportIssuer, c.DateOfBirth,
		c.Nationality, c.Gender, c.ScanImageURL,
		time.Now().UTC().Format(timeFormat), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}
