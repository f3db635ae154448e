package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// TransitionWorker processes committed transition events from the River
// queue. For now it logs the transition; future versions will dispatch
// to webhooks, billing, or notification systems.
type TransitionWorker struct {
	river.WorkerDefaults[TransitionJobArgs]
}

// Work processes a single transition job.
func (w *TransitionWorker) Work(ctx context.Context, job *river.Job[TransitionJobArgs]) error {
	slog.InfoContext(ctx, "processing transition",
		"vehicle_id", job.Args.VehicleID,
		"license_plate", job.Args.LicensePlate,
		"from", job.Args.From,
		"to", job.Args.To,
		"action", job.Args.Action,
		"created_docs", len(job.Args.CreatedDocs),
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
