package intervention

import (
	"context"
	"fmt"
	"log"
	"time"

	"interventions/internal/domain"
	"interventions/internal/pkg/validator"
	"interventions/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultLimit    = 100
	defaultPriority = 1
)

// Service is the intervention lifecycle engine. It owns the state machine
// (planned -> in_progress -> completed/cancelled/postponed) and the
// consistency contract with the stock and technician collaborators;
// everything around it is mechanical plumbing.
type Service struct {
	repo        Repository
	stock       StockClient
	technicians TechnicianClient
}

func NewService(repo Repository, stock StockClient, technicians TechnicianClient) *Service {
	return &Service{
		repo:        repo,
		stock:       stock,
		technicians: technicians,
	}
}

// Create builds a new intervention in planned status. When a technician is
// already named, their availability is checked first; the technician is not
// booked here, that only happens through Assign.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Intervention, error) {
	if req.TechnicianID != nil {
		if !s.technicians.CheckAvailability(ctx, *req.TechnicianID, req.ScheduledAt) {
			return nil, ErrTechnicianUnavailable
		}
	}

	priority := req.Priority
	if priority == 0 {
		priority = defaultPriority
	}

	iv := &domain.Intervention{
		MachineID:         req.MachineID,
		Type:              req.Type,
		Title:             req.Title,
		Description:       req.Description,
		TechnicianID:      req.TechnicianID,
		ScheduledAt:       req.ScheduledAt,
		EstimatedDuration: req.EstimatedDuration,
		Priority:          priority,
		Status:            domain.StatusPlanned,
		CreatedAt:         time.Now().UTC(),
		PartsUsed:         []domain.PartUsage{},
		TotalCost:         0,
	}

	if err := s.repo.Create(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Intervention, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, ErrNotFound
	}
	return iv, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Intervention, error) {
	limit := q.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	f := repository.InterventionFilter{
		Status:       q.Status,
		MachineID:    q.MachineID,
		TechnicianID: q.TechnicianID,
	}
	return s.repo.List(ctx, f, q.Skip, limit)
}

func (s *Service) ListByMachine(ctx context.Context, machineID int) ([]domain.Intervention, error) {
	return s.repo.ListByMachine(ctx, machineID)
}

func (s *Service) ListByTechnician(ctx context.Context, technicianID int) ([]domain.Intervention, error) {
	return s.repo.ListByTechnician(ctx, technicianID)
}

// Update applies a partial change-set. A request carrying no fields is
// rejected; when it moves both the technician and the scheduled time,
// availability is re-validated against the new time before anything is
// written.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*domain.Intervention, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Type != nil {
		fields["type"] = string(*req.Type)
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.TechnicianID != nil {
		fields["technician_id"] = *req.TechnicianID
	}
	if req.ScheduledAt != nil {
		fields["scheduled_at"] = *req.ScheduledAt
	}
	if req.EstimatedDuration != nil {
		fields["estimated_duration_minutes"] = *req.EstimatedDuration
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.Status != nil {
		fields["status"] = string(*req.Status)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	if req.TechnicianID != nil && req.ScheduledAt != nil {
		if !s.technicians.CheckAvailability(ctx, *req.TechnicianID, *req.ScheduledAt) {
			return nil, ErrTechnicianUnavailable
		}
	}

	matched, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Assign names a technician on an existing intervention. Availability is
// checked against the intervention's stored scheduled time. The record is
// written before the technician service is notified; a failed notification
// is logged but does not undo the assignment.
func (s *Service) Assign(ctx context.Context, id string, technicianID int) (*domain.Intervention, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, ErrNotFound
	}

	if !s.technicians.CheckAvailability(ctx, technicianID, iv.ScheduledAt) {
		return nil, ErrTechnicianUnavailable
	}

	if _, err := s.repo.UpdateFields(ctx, id, map[string]any{"technician_id": technicianID}); err != nil {
		return nil, err
	}

	if !s.technicians.NotifyAssignment(ctx, technicianID, id) {
		log.Printf("intervention service: assignment notify failed intervention_id=%s technician_id=%d", id, technicianID)
	}

	return s.repo.GetByID(ctx, id)
}

// Start moves the intervention to in_progress and stamps started_at. There
// is deliberately no guard on the prior status: re-starting resets
// started_at, matching how the rest of the platform behaves.
func (s *Service) Start(ctx context.Context, id string) (*domain.Intervention, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	matched, err := s.repo.UpdateFields(ctx, id, map[string]any{
		"status":     string(domain.StatusInProgress),
		"started_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Close finalizes an intervention: computes the total cost, decrements
// stock for every part used (sequentially, in list order, aborting on the
// first failure with no rollback of earlier decrements), then persists
// status, end time, duration, report, parts and cost as one batched update.
func (s *Service) Close(ctx context.Context, id string, req CloseRequest) (*domain.Intervention, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	parts := req.PartsUsed
	if parts == nil {
		parts = []domain.PartUsage{}
	}

	total := 0.0
	for _, p := range parts {
		if errs := validator.Validate(p); errs != nil {
			return nil, fmt.Errorf("%w: part %s: %v", ErrValidation, p.PartID, errs)
		}
		total += p.LineCost()
	}

	for _, p := range parts {
		if !s.stock.Decrement(ctx, p.PartID, p.Quantity) {
			return nil, fmt.Errorf("%w: part %s", ErrStockDecrement, p.Name)
		}
	}

	status := req.Status
	if status == "" {
		status = domain.StatusCompleted
	}
	cost := total
	if req.TotalCost != nil {
		cost = *req.TotalCost
	}

	matched, err := s.repo.UpdateFields(ctx, id, map[string]any{
		"status":                  string(status),
		"ended_at":                time.Now().UTC(),
		"actual_duration_minutes": req.ActualDuration,
		"closure_report":          req.ClosureReport,
		"parts_used":              parts,
		"total_cost":              cost,
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func validateID(id string) error {
	if uuid.Validate(id) != nil {
		return ErrInvalidID
	}
	return nil
}
