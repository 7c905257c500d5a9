package intervention

import (
	"context"
	"time"

	"interventions/internal/domain"
	"interventions/internal/repository"
)

// Repository is the persistence surface the lifecycle engine needs.
// GetByID returns (nil, nil) for a missing record; UpdateFields and Delete
// report whether anything matched.
type Repository interface {
	Create(ctx context.Context, iv *domain.Intervention) error
	GetByID(ctx context.Context, id string) (*domain.Intervention, error)
	List(ctx context.Context, f repository.InterventionFilter, skip, limit int) ([]domain.Intervention, error)
	ListByMachine(ctx context.Context, machineID int) ([]domain.Intervention, error)
	ListByTechnician(ctx context.Context, technicianID int) ([]domain.Intervention, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StockClient decrements part inventory; false means the decrement did not
// happen (refused or unreachable, fail-closed either way).
type StockClient interface {
	Decrement(ctx context.Context, partID string, quantity int) bool
}

// TechnicianClient checks availability (fail-open on transport errors) and
// notifies assignments (fail-closed).
type TechnicianClient interface {
	CheckAvailability(ctx context.Context, technicianID int, when time.Time) bool
	NotifyAssignment(ctx context.Context, technicianID int, interventionID string) bool
}
