package domain

import (
	"fmt"
	"time"
)

// ServiceStatus is the workshop job lifecycle.
type ServiceStatus string

const (
	ServiceToDo       ServiceStatus = "To Do"
	ServiceInProgress ServiceStatus = "In Progress"
	ServiceCompleted  ServiceStatus = "Completed"
)

// ServiceJob is a maintenance or repair job tied to a vehicle. TotalCost
// is always recomputed from its parts; input totals are ignored.
type ServiceJob struct {
	ID             string
	VehicleID      string
	ServiceType    string
	Description    string
	ScheduledDate  time.Time
	CompletionDate time.Time
	LaborCost      float64
	PartsCost      float64
	OtherCost      float64
	TotalCost      float64
	Vendor         string
	Note           string
	Status         ServiceStatus
	CreatedAt      time.Time
}

func (*ServiceJob) DocKind() string { return "Service Job" }

// ComputeTotal restores the cost invariant: total = labor + parts + other.
func (s *ServiceJob) ComputeTotal() {
	s.TotalCost = s.LaborCost + s.PartsCost + s.OtherCost
}

// Validate checks date order and recomputes the cost total.
func (s *ServiceJob) Validate() error {
	s.ComputeTotal()
	if !s.CompletionDate.IsZero() && !s.ScheduledDate.IsZero() && s.CompletionDate.Before(s.ScheduledDate) {
		return &InvalidDocumentError{
			Reason: fmt.Sprintf("completion date %s cannot be before service date %s",
				s.CompletionDate.Format("2006-01-02"), s.ScheduledDate.Format("2006-01-02")),
		}
	}
	return nil
}
