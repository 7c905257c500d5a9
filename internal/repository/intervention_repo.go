package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"interventions/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InterventionFilter is an AND-composition of optional criteria; a nil field
// leaves that dimension unconstrained.
type InterventionFilter struct {
	Status       *domain.InterventionStatus
	MachineID    *int
	TechnicianID *int
}

type InterventionRepository struct {
	db *gorm.DB
}

func NewInterventionRepository(db *gorm.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

type interventionModel struct {
	ID                string     `gorm:"column:id;primaryKey;size:36"`
	MachineID         int        `gorm:"column:machine_id;index;index:idx_machine_status_scheduled,priority:1"`
	Type              string     `gorm:"column:type"`
	Title             string     `gorm:"column:title;size:200"`
	Description       *string    `gorm:"column:description;size:1000"`
	TechnicianID      *int       `gorm:"column:technician_id;index"`
	ScheduledAt       time.Time  `gorm:"column:scheduled_at;index:,sort:desc;index:idx_machine_status_scheduled,priority:3"`
	EstimatedDuration *int       `gorm:"column:estimated_duration_minutes"`
	Priority          int        `gorm:"column:priority"`
	Status            string     `gorm:"column:status;index;index:idx_machine_status_scheduled,priority:2"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	StartedAt         *time.Time `gorm:"column:started_at"`
	EndedAt           *time.Time `gorm:"column:ended_at"`
	ActualDuration    *int       `gorm:"column:actual_duration_minutes"`
	ClosureReport     *string    `gorm:"column:closure_report"`
	PartsUsed         string     `gorm:"column:parts_used;type:text"`
	TotalCost         float64    `gorm:"column:total_cost"`
}

func (interventionModel) TableName() string { return "interventions" }

func toDomainIntervention(m interventionModel) (*domain.Intervention, error) {
	parts := []domain.PartUsage{}
	if m.PartsUsed != "" {
		if err := json.Unmarshal([]byte(m.PartsUsed), &parts); err != nil {
			return nil, err
		}
	}

	var description, report string
	if m.Description != nil {
		description = *m.Description
	}
	if m.ClosureReport != nil {
		report = *m.ClosureReport
	}

	return &domain.Intervention{
		ID:                m.ID,
		MachineID:         m.MachineID,
		Type:              domain.InterventionType(m.Type),
		Title:             m.Title,
		Description:       description,
		TechnicianID:      m.TechnicianID,
		ScheduledAt:       m.ScheduledAt,
		EstimatedDuration: m.EstimatedDuration,
		Priority:          m.Priority,
		Status:            domain.InterventionStatus(m.Status),
		CreatedAt:         m.CreatedAt,
		StartedAt:         m.StartedAt,
		EndedAt:           m.EndedAt,
		ActualDuration:    m.ActualDuration,
		ClosureReport:     report,
		PartsUsed:         parts,
		TotalCost:         m.TotalCost,
	}, nil
}

func toInterventionModel(iv *domain.Intervention) (interventionModel, error) {
	parts := iv.PartsUsed
	if parts == nil {
		parts = []domain.PartUsage{}
	}
	raw, err := json.Marshal(parts)
	if err != nil {
		return interventionModel{}, err
	}

	var description, report *string
	if iv.Description != "" {
		v := iv.Description
		description = &v
	}
	if iv.ClosureReport != "" {
		v := iv.ClosureReport
		report = &v
	}

	return interventionModel{
		ID:                iv.ID,
		MachineID:         iv.MachineID,
		Type:              string(iv.Type),
		Title:             iv.Title,
		Description:       description,
		TechnicianID:      iv.TechnicianID,
		ScheduledAt:       iv.ScheduledAt,
		EstimatedDuration: iv.EstimatedDuration,
		Priority:          iv.Priority,
		Status:            string(iv.Status),
		CreatedAt:         iv.CreatedAt,
		StartedAt:         iv.StartedAt,
		EndedAt:           iv.EndedAt,
		ActualDuration:    iv.ActualDuration,
		ClosureReport:     report,
		PartsUsed:         string(raw),
		TotalCost:         iv.TotalCost,
	}, nil
}

// Create inserts the record, generating the identifier when absent.
func (r *InterventionRepository) Create(ctx context.Context, iv *domain.Intervention) error {
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	m, err := toInterventionModel(iv)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	out, err := toDomainIntervention(m)
	if err != nil {
		return err
	}
	*iv = *out
	return nil
}

// GetByID returns (nil, nil) when no record matches.
func (r *InterventionRepository) GetByID(ctx context.Context, id string) (*domain.Intervention, error) {
	var m interventionModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainIntervention(m)
}

func (r *InterventionRepository) List(ctx context.Context, f InterventionFilter, skip, limit int) ([]domain.Intervention, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&interventionModel{}), f).
		Order("scheduled_at DESC").
		Offset(skip).
		Limit(limit)

	var rows []interventionModel
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}
	return r.toDomainList(rows)
}

func (r *InterventionRepository) ListByMachine(ctx context.Context, machineID int) ([]domain.Intervention, error) {
	var rows []interventionModel
	tx := r.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("scheduled_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return r.toDomainList(rows)
}

func (r *InterventionRepository) ListByTechnician(ctx context.Context, technicianID int) ([]domain.Intervention, error) {
	var rows []interventionModel
	tx := r.db.WithContext(ctx).
		Where("technician_id = ?", technicianID).
		Order("scheduled_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return r.toDomainList(rows)
}

// UpdateFields applies the change-set as a single batched update. Keys are
// column names; a []domain.PartUsage value under "parts_used" is marshalled
// at this edge. Returns false when no record matched.
func (r *InterventionRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return false, errors.New("empty change-set")
	}

	updates := make(map[string]any, len(fields))
	for k, v := range fields {
		if parts, ok := v.([]domain.PartUsage); ok {
			raw, err := json.Marshal(parts)
			if err != nil {
				return false, err
			}
			updates[k] = string(raw)
			continue
		}
		updates[k] = v
	}

	tx := r.db.WithContext(ctx).
		Model(&interventionModel{}).
		Where("id = ?", id).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Delete removes the record; returns false when nothing matched.
func (r *InterventionRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&interventionModel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *InterventionRepository) applyFilter(q *gorm.DB, f InterventionFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.MachineID != nil {
		q = q.Where("machine_id = ?", *f.MachineID)
	}
	if f.TechnicianID != nil {
		q = q.Where("technician_id = ?", *f.TechnicianID)
	}
	return q
}

func (r *InterventionRepository) toDomainList(rows []interventionModel) ([]domain.Intervention, error) {
	out := make([]domain.Intervention, 0, len(rows))
	for _, m := range rows {
		iv, err := toDomainIntervention(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	return out, nil
}
