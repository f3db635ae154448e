package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// CreatedDocRef mirrors a created document inside a job payload.
type CreatedDocRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// TransitionJobArgs carries a committed vehicle transition into the job
// queue. River serializes this as JSON into its job table. It is a full
// snapshot of the event, so the worker never needs to query the
// database.
type TransitionJobArgs struct {
	VehicleID    string          `json:"vehicle_id"`
	LicensePlate string          `json:"license_plate"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Action       string          `json:"action"`
	CreatedDocs  []CreatedDocRef `json:"created_docs,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (TransitionJobArgs) Kind() string { return "vehicle.transitioned" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a transition event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.TransitionEvent) error {
	docs := make([]CreatedDocRef, 0, len(event.CreatedDocs))
	for _, d := range event.CreatedDocs {
		docs = append(docs, CreatedDocRef{Type: d.Type, ID: d.ID})
	}
	_, err := p.client.Insert(ctx, TransitionJobArgs{
		VehicleID:    event.VehicleID,
		LicensePlate: event.LicensePlate,
		From:         string(event.From),
		To:           string(event.To),
		Action:       event.Action,
		CreatedDocs:  docs,
		OccurredAt:   event.OccurredAt,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing transition job: %w", err)
	}
	return nil
}
