package intervention

import (
	"time"

	"interventions/internal/domain"
)

type CreateRequest struct {
	MachineID         int                     `json:"machine_id" binding:"required"`
	Type              domain.InterventionType `json:"type" binding:"required,oneof=preventive corrective predictive ameliorative"`
	Title             string                  `json:"title" binding:"required,min=5,max=200"`
	Description       string                  `json:"description" binding:"omitempty,max=1000"`
	TechnicianID      *int                    `json:"technician_id"`
	ScheduledAt       time.Time               `json:"scheduled_at" binding:"required"`
	EstimatedDuration *int                    `json:"estimated_duration_minutes" binding:"omitempty,gt=0"`
	Priority          int                     `json:"priority" binding:"omitempty,min=1,max=5"`
}

// UpdateRequest carries a partial change-set; nil fields stay untouched.
type UpdateRequest struct {
	Type              *domain.InterventionType   `json:"type" binding:"omitempty,oneof=preventive corrective predictive ameliorative"`
	Title             *string                    `json:"title" binding:"omitempty,min=5,max=200"`
	Description       *string                    `json:"description" binding:"omitempty,max=1000"`
	TechnicianID      *int                       `json:"technician_id"`
	ScheduledAt       *time.Time                 `json:"scheduled_at"`
	EstimatedDuration *int                       `json:"estimated_duration_minutes" binding:"omitempty,gt=0"`
	Priority          *int                       `json:"priority" binding:"omitempty,min=1,max=5"`
	Status            *domain.InterventionStatus `json:"status" binding:"omitempty,oneof=planned in_progress completed cancelled postponed"`
}

type CloseRequest struct {
	Status         domain.InterventionStatus `json:"status" binding:"omitempty,oneof=completed cancelled postponed"`
	ClosureReport  string                    `json:"closure_report" binding:"required,min=10"`
	PartsUsed      []domain.PartUsage        `json:"parts_used"`
	ActualDuration int                       `json:"actual_duration_minutes" binding:"required,gt=0"`
	TotalCost      *float64                  `json:"total_cost" binding:"omitempty,gte=0"`
}

type ListQuery struct {
	Skip         int                        `form:"skip" binding:"omitempty,min=0"`
	Limit        int                        `form:"limit" binding:"omitempty,min=1,max=1000"`
	Status       *domain.InterventionStatus `form:"status" binding:"omitempty,oneof=planned in_progress completed cancelled postponed"`
	MachineID    *int                       `form:"machine_id"`
	TechnicianID *int                       `form:"technician_id"`
}
