package fsm

import (
	"context"
	"errors"
	"fmt"

	loopfsm "github.com/looplab/fsm"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// Validator implements domain.TransitionValidator using looplab/fsm.
// A short-lived FSM is built per Validate call, initialized with the
// vehicle's current status, since looplab/fsm tracks its own current
// state internally.
//
// Edges come from the optional workflow source when one is configured
// for vehicles; the static domain table is the fallback.
type Validator struct {
	source domain.WorkflowSource
}

// New creates an FSM-backed validator over the static transition table.
func New() *Validator {
	return &Validator{}
}

// NewWithWorkflow creates a validator that prefers dynamically
// configured workflow edges over the static table.
func NewWithWorkflow(source domain.WorkflowSource) *Validator {
	return &Validator{source: source}
}

// vehicleDocumentType is the workflow document type the validator
// consults.
const vehicleDocumentType = "Vehicle"

// eventName keys each edge as a distinct FSM event so validation is an
// exact (from, to) lookup rather than an action-name lookup.
func eventName(from, to domain.Status) string {
	return string(from) + " -> " + string(to)
}

// staticEvents is the static table in looplab EventDesc form, built once.
var staticEvents = buildEvents(domain.Edges)

func buildEvents(edges []domain.Edge) []loopfsm.EventDesc {
	out := make([]loopfsm.EventDesc, 0, len(edges))
	for _, e := range edges {
		out = append(out, loopfsm.EventDesc{
			Name: eventName(e.From, e.To),
			Src:  []string{string(e.From)},
			Dst:  string(e.To),
		})
	}
	return out
}

// Validate reports whether the vehicle may move from one status to the
// other. It is pure: nothing is mutated and no state survives the call.
func (v *Validator) Validate(ctx context.Context, from, to domain.Status) error {
	if !domain.IsValidStatus(from) {
		return &domain.InvalidStateError{State: from}
	}
	if !domain.IsValidStatus(to) {
		return &domain.InvalidStateError{State: to}
	}
	// Same-state calls are idempotent no-ops, always allowed.
	if from == to {
		return nil
	}

	events := staticEvents
	if v.source != nil {
		workflowEdges, err := v.source.Edges(ctx, vehicleDocumentType)
		if err != nil {
			return fmt.Errorf("loading workflow edges: %w", err)
		}
		if len(workflowEdges) > 0 {
			edges := make([]domain.Edge, 0, len(workflowEdges))
			for _, we := range workflowEdges {
				edges = append(edges, domain.Edge{From: we.FromState, Action: we.Action, To: we.ToState})
			}
			events = buildEvents(edges)
		}
	}

	machine := loopfsm.NewFSM(string(from), events, nil)
	if err := machine.Event(ctx, eventName(from, to)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return &domain.DisallowedTransitionError{From: from, To: to}
		}
		return err
	}
	if machine.Current() != string(to) {
		return &domain.DisallowedTransitionError{From: from, To: to}
	}
	return nil
}
