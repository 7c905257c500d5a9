package intervention

import (
	"context"
	"testing"
	"time"

	"interventions/internal/domain"
	"interventions/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock collaborators

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, iv *domain.Intervention) error {
	args := m.Called(ctx, iv)
	if iv != nil && iv.ID == "" {
		iv.ID = uuid.NewString() // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.Intervention, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Intervention), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f repository.InterventionFilter, skip, limit int) ([]domain.Intervention, error) {
	args := m.Called(ctx, f, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Intervention), args.Error(1)
}

func (m *MockRepository) ListByMachine(ctx context.Context, machineID int) ([]domain.Intervention, error) {
	args := m.Called(ctx, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Intervention), args.Error(1)
}

func (m *MockRepository) ListByTechnician(ctx context.Context, technicianID int) ([]domain.Intervention, error) {
	args := m.Called(ctx, technicianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Intervention), args.Error(1)
}

func (m *MockRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	args := m.Called(ctx, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockStockClient struct {
	mock.Mock
}

func (m *MockStockClient) Decrement(ctx context.Context, partID string, quantity int) bool {
	args := m.Called(ctx, partID, quantity)
	return args.Bool(0)
}

type MockTechnicianClient struct {
	mock.Mock
}

func (m *MockTechnicianClient) CheckAvailability(ctx context.Context, technicianID int, when time.Time) bool {
	args := m.Called(ctx, technicianID, when)
	return args.Bool(0)
}

func (m *MockTechnicianClient) NotifyAssignment(ctx context.Context, technicianID int, interventionID string) bool {
	args := m.Called(ctx, technicianID, interventionID)
	return args.Bool(0)
}

func newTestService() (*Service, *MockRepository, *MockStockClient, *MockTechnicianClient) {
	repo := new(MockRepository)
	stockClient := new(MockStockClient)
	techClient := new(MockTechnicianClient)
	return NewService(repo, stockClient, techClient), repo, stockClient, techClient
}

func TestService_Create_Defaults(t *testing.T) {
	svc, repo, _, _ := newTestService()

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	iv, err := svc.Create(context.Background(), CreateRequest{
		MachineID:   7,
		Type:        domain.TypePreventive,
		Title:       "Quarterly pump overhaul",
		ScheduledAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.NotNil(t, iv)
	assert.Equal(t, domain.StatusPlanned, iv.Status)
	assert.Equal(t, 1, iv.Priority)
	assert.WithinDuration(t, time.Now().UTC(), iv.CreatedAt, 2*time.Second)
	assert.Nil(t, iv.StartedAt)
	assert.Nil(t, iv.EndedAt)
	assert.Empty(t, iv.PartsUsed)
	assert.Zero(t, iv.TotalCost)
	repo.AssertExpectations(t)
}

func TestService_Create_ChecksTechnicianAvailability(t *testing.T) {
	svc, repo, _, techClient := newTestService()

	techID := 3
	when := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	techClient.On("CheckAvailability", mock.Anything, techID, when).Return(false)

	_, err := svc.Create(context.Background(), CreateRequest{
		MachineID:    7,
		Type:         domain.TypeCorrective,
		Title:        "Replace drive belt",
		TechnicianID: &techID,
		ScheduledAt:  when,
	})

	assert.ErrorIs(t, err, ErrTechnicianUnavailable)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Get_InvalidID(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Get(context.Background(), "not-a-valid-id")

	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestService_Get_NotFound(t *testing.T) {
	svc, repo, _, _ := newTestService()

	id := uuid.NewString()
	repo.On("GetByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.Get(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_List_AppliesDefaultLimit(t *testing.T) {
	svc, repo, _, _ := newTestService()

	status := domain.StatusCompleted
	machineID := 7
	repo.On("List", mock.Anything, repository.InterventionFilter{
		Status:    &status,
		MachineID: &machineID,
	}, 0, 100).Return([]domain.Intervention{}, nil)

	_, err := svc.List(context.Background(), ListQuery{Status: &status, MachineID: &machineID})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// Start has no guard on the prior status: a second start resets started_at
// and re-sets in_progress. That behavior is intentional and pinned here.
func TestService_Start_IgnoresPriorStatus(t *testing.T) {
	svc, repo, _, _ := newTestService()

	id := uuid.NewString()
	started := &domain.Intervention{ID: id, Status: domain.StatusInProgress}

	repo.On("UpdateFields", mock.Anything, id, mock.MatchedBy(func(fields map[string]any) bool {
		startedAt, ok := fields["started_at"].(time.Time)
		return fields["status"] == string(domain.StatusInProgress) &&
			ok && time.Since(startedAt) < 2*time.Second
	})).Return(true, nil)
	repo.On("GetByID", mock.Anything, id).Return(started, nil)

	iv, err := svc.Start(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, iv.Status)
	repo.AssertExpectations(t)
}

func TestService_Start_NotFound(t *testing.T) {
	svc, repo, _, _ := newTestService()

	id := uuid.NewString()
	repo.On("UpdateFields", mock.Anything, id, mock.Anything).Return(false, nil)

	_, err := svc.Start(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Close_ComputesTotalCost(t *testing.T) {
	svc, repo, stockClient, _ := newTestService()

	id := uuid.NewString()
	parts := []domain.PartUsage{
		{PartID: "P-100", Name: "Bearing", Quantity: 2, UnitPrice: 10.0},
		{PartID: "P-200", Name: "Seal kit", Quantity: 1, UnitPrice: 5.0},
	}

	decremented := []string{}
	stockClient.On("Decrement", mock.Anything, "P-100", 2).Run(func(args mock.Arguments) {
		decremented = append(decremented, args.String(1))
	}).Return(true)
	stockClient.On("Decrement", mock.Anything, "P-200", 1).Run(func(args mock.Arguments) {
		decremented = append(decremented, args.String(1))
	}).Return(true)

	repo.On("UpdateFields", mock.Anything, id, mock.MatchedBy(func(fields map[string]any) bool {
		_, hasEnd := fields["ended_at"].(time.Time)
		return fields["status"] == string(domain.StatusCompleted) &&
			fields["total_cost"] == 25.0 &&
			fields["actual_duration_minutes"] == 45 &&
			fields["closure_report"] == "Replaced bearing and seals" &&
			hasEnd
	})).Return(true, nil)
	repo.On("GetByID", mock.Anything, id).Return(&domain.Intervention{ID: id, Status: domain.StatusCompleted, TotalCost: 25.0}, nil)

	iv, err := svc.Close(context.Background(), id, CloseRequest{
		ClosureReport:  "Replaced bearing and seals",
		PartsUsed:      parts,
		ActualDuration: 45,
	})

	assert.NoError(t, err)
	assert.Equal(t, 25.0, iv.TotalCost)
	// Decrements run sequentially, in list order.
	assert.Equal(t, []string{"P-100", "P-200"}, decremented)
	repo.AssertExpectations(t)
}

func TestService_Close_ExplicitCostOverride(t *testing.T) {
	svc, repo, stockClient, _ := newTestService()

	id := uuid.NewString()
	override := 99.9
	stockClient.On("Decrement", mock.Anything, "P-100", 2).Return(true)

	repo.On("UpdateFields", mock.Anything, id, mock.MatchedBy(func(fields map[string]any) bool {
		return fields["total_cost"] == 99.9
	})).Return(true, nil)
	repo.On("GetByID", mock.Anything, id).Return(&domain.Intervention{ID: id, TotalCost: 99.9}, nil)

	_, err := svc.Close(context.Background(), id, CloseRequest{
		ClosureReport:  "Cost negotiated with supplier",
		PartsUsed:      []domain.PartUsage{{PartID: "P-100", Name: "Bearing", Quantity: 2, UnitPrice: 10.0}},
		ActualDuration: 30,
		TotalCost:      &override,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// A failed decrement aborts the whole closure before the record is touched.
// Parts already decremented are not compensated; that gap is inherited from
// the platform's consistency model.
func TestService_Close_AbortsOnDecrementFailure(t *testing.T) {
	svc, repo, stockClient, _ := newTestService()

	id := uuid.NewString()
	stockClient.On("Decrement", mock.Anything, "P-100", 2).Return(true)
	stockClient.On("Decrement", mock.Anything, "P-200", 1).Return(false)

	_, err := svc.Close(context.Background(), id, CloseRequest{
		ClosureReport: "Attempted closure",
		PartsUsed: []domain.PartUsage{
			{PartID: "P-100", Name: "Bearing", Quantity: 2, UnitPrice: 10.0},
			{PartID: "P-200", Name: "Seal kit", Quantity: 1, UnitPrice: 5.0},
		},
		ActualDuration: 45,
	})

	assert.ErrorIs(t, err, ErrStockDecrement)
	assert.ErrorContains(t, err, "Seal kit")
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Close_RejectsInvalidPartQuantity(t *testing.T) {
	svc, repo, stockClient, _ := newTestService()

	id := uuid.NewString()
	_, err := svc.Close(context.Background(), id, CloseRequest{
		ClosureReport:  "Broken payload",
		PartsUsed:      []domain.PartUsage{{PartID: "P-100", Name: "Bearing", Quantity: 0, UnitPrice: 10.0}},
		ActualDuration: 45,
	})

	assert.ErrorIs(t, err, ErrValidation)
	stockClient.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_EmptyChangeSet(t *testing.T) {
	svc, repo, _, _ := newTestService()

	_, err := svc.Update(context.Background(), uuid.NewString(), UpdateRequest{})

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_RevalidatesTechnicianAndSchedule(t *testing.T) {
	svc, repo, _, techClient := newTestService()

	techID := 3
	when := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)
	techClient.On("CheckAvailability", mock.Anything, techID, when).Return(false)

	_, err := svc.Update(context.Background(), uuid.NewString(), UpdateRequest{
		TechnicianID: &techID,
		ScheduledAt:  &when,
	})

	assert.ErrorIs(t, err, ErrTechnicianUnavailable)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Assign_UnavailableTechnician(t *testing.T) {
	svc, repo, _, techClient := newTestService()

	id := uuid.NewString()
	when := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)
	repo.On("GetByID", mock.Anything, id).Return(&domain.Intervention{ID: id, ScheduledAt: when}, nil)
	techClient.On("CheckAvailability", mock.Anything, 3, when).Return(false)

	_, err := svc.Assign(context.Background(), id, 3)

	assert.ErrorIs(t, err, ErrTechnicianUnavailable)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

// The record is written before the notify call, and a failed notification
// does not roll the assignment back.
func TestService_Assign_NotifyFailureKeepsAssignment(t *testing.T) {
	svc, repo, _, techClient := newTestService()

	id := uuid.NewString()
	when := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)
	techID := 3

	repo.On("GetByID", mock.Anything, id).Return(&domain.Intervention{ID: id, ScheduledAt: when}, nil).Once()
	techClient.On("CheckAvailability", mock.Anything, techID, when).Return(true)
	repo.On("UpdateFields", mock.Anything, id, map[string]any{"technician_id": techID}).Return(true, nil)
	techClient.On("NotifyAssignment", mock.Anything, techID, id).Return(false)
	repo.On("GetByID", mock.Anything, id).Return(&domain.Intervention{ID: id, ScheduledAt: when, TechnicianID: &techID}, nil).Once()

	iv, err := svc.Assign(context.Background(), id, techID)

	assert.NoError(t, err)
	assert.Equal(t, &techID, iv.TechnicianID)
	repo.AssertExpectations(t)
	techClient.AssertExpectations(t)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc, repo, _, _ := newTestService()

	id := uuid.NewString()
	repo.On("Delete", mock.Anything, id).Return(false, nil)

	err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
}
