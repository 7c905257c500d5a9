package domain

import "time"

type InterventionType string

const (
	TypePreventive   InterventionType = "preventive"
	TypeCorrective   InterventionType = "corrective"
	TypePredictive   InterventionType = "predictive"
	TypeAmeliorative InterventionType = "ameliorative"
)

type InterventionStatus string

const (
	StatusPlanned    InterventionStatus = "planned"
	StatusInProgress InterventionStatus = "in_progress"
	StatusCompleted  InterventionStatus = "completed"
	StatusCancelled  InterventionStatus = "cancelled"
	StatusPostponed  InterventionStatus = "postponed"
)

// PartUsage is a stock part consumed during an intervention. It has no
// identity of its own; the list lives inside the intervention record.
type PartUsage struct {
	PartID    string  `json:"part_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

func (p PartUsage) LineCost() float64 {
	return float64(p.Quantity) * p.UnitPrice
}

// Intervention is a scheduled or in-progress maintenance task against a
// machine. Machines and technicians live in other services of the platform,
// so only their numeric ids are kept here.
type Intervention struct {
	ID                string             `json:"id"`
	MachineID         int                `json:"machine_id" validate:"required"`
	Type              InterventionType   `json:"type" validate:"required"`
	Title             string             `json:"title" validate:"required,min=5,max=200"`
	Description       string             `json:"description,omitempty" validate:"max=1000"`
	TechnicianID      *int               `json:"technician_id,omitempty"`
	ScheduledAt       time.Time          `json:"scheduled_at" validate:"required"`
	EstimatedDuration *int               `json:"estimated_duration_minutes,omitempty"`
	Priority          int                `json:"priority" validate:"min=1,max=5"`
	Status            InterventionStatus `json:"status"`
	CreatedAt         time.Time          `json:"created_at"`
	StartedAt         *time.Time         `json:"started_at,omitempty"`
	EndedAt           *time.Time         `json:"ended_at,omitempty"`
	ActualDuration    *int               `json:"actual_duration_minutes,omitempty"`
	ClosureReport     string             `json:"closure_report,omitempty"`
	PartsUsed         []PartUsage        `json:"parts_used"`
	TotalCost         float64            `json:"total_cost"`
}
