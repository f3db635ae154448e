package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Store implements domain.ServiceRepository.
var _ domain.ServiceRepository = (*Store)(nil)

const serviceColumns = `id, vehicle_id, service_type, description, scheduled_date,
	completion_date, labor_cost, parts_cost, other_cost, total_cost, vendor, note,
	status, created_at`

func insertServiceJob(ctx context.Context, ex execer, job domain.ServiceJob) error {
	if err := job.Validate(); err != nil {
		return err
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO service_jobs (`+serviceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.VehicleID, job.ServiceType, job.Description, fmtTime(job.ScheduledDate),
		fmtTime(job.CompletionDate), job.LaborCost, job.PartsCost, job.OtherCost, job.TotalCost,
		job.Vendor, job.Note, string(job.Status), fmtTime(job.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting service job: %w", err)
	}
	return nil
}

func (s *Store) ListServiceJobs(ctx context.Context, vehicleID string) ([]domain.ServiceJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM service_jobs
		 WHERE vehicle_id = ? ORDER BY scheduled_date DESC`, vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing service jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.ServiceJob
	for rows.Next() {
		var j domain.ServiceJob
		var scheduled, completion, status, createdAt string
		err := rows.Scan(&j.ID, &j.VehicleID, &j.ServiceType, &j.Description, &scheduled,
			&completion, &j.LaborCost, &j.PartsCost, &j.OtherCost, &j.TotalCost,
			&j.Vendor, &j.Note, &status, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning service job row: %w", err)
		}
		j.ScheduledDate = parseTime(scheduled)
		j.CompletionDate = parseTime(completion)
		j.Status = domain.ServiceStatus(status)
		j.CreatedAt = parseTime(createdAt)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *Store) SetServiceStatus(ctx context.Context, id string, status domain.ServiceStatus, completion time.Time) error {
	var scheduledRaw string
	err := s.db.QueryRowContext(ctx,
		`SELECT scheduled_date FROM service_jobs WHERE id = ?`, id,
	).Scan(&scheduledRaw)
	if err == sql.ErrNoRows {
		return &domain.InvalidDocumentError{Reason: fmt.Sprintf("service job %s not found", id)}
	}
	if err != nil {
		return fmt.Errorf("loading service job: %w", err)
	}

	// Same date-order rule the insert path enforces through Validate.
	scheduled := parseTime(scheduledRaw)
	if !completion.IsZero() && !scheduled.IsZero() && completion.Before(scheduled) {
		return &domain.InvalidDocumentError{
			Reason: fmt.Sprintf("completion date %s cannot be before service date %s",
				completion.Format("2006-01-02"), scheduled.Format("2006-01-02")),
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE service_jobs SET status = ?, completion_date = ? WHERE id = ?`,
		string(status), fmtTime(completion), id,
	); err != nil {
		return fmt.Errorf("updating service status: %w", err)
	}
	return nil
}
