package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/domain"
)

// Hand-maintained mocks in moq style: Func fields, call recording, panic on
// unconfigured calls.

var _ blockRepo = &blockRepoMock{}

type blockRepoMock struct {
	CreateFunc      func(ctx context.Context, block domain.Block) (*domain.Block, error)
	GetByIDFunc     func(ctx context.Context, ownerID, blockID uuid.UUID) (*domain.Block, error)
	ListEnabledFunc func(ctx context.Context, ownerID uuid.UUID) ([]domain.Block, error)
	ExistByIDsFunc  func(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)

	calls struct {
		Create      []domain.Block
		GetByID     []uuid.UUID
		ListEnabled []uuid.UUID
		ExistByIDs  [][]uuid.UUID
	}
	mu sync.Mutex
}

func (m *blockRepoMock) Create(ctx context.Context, block domain.Block) (*domain.Block, error) {
	if m.CreateFunc == nil {
		panic("blockRepoMock.CreateFunc: method is nil but blockRepo.Create was just called")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, block)
	m.mu.Unlock()
	return m.CreateFunc(ctx, block)
}

func (m *blockRepoMock) GetByID(ctx context.Context, ownerID, blockID uuid.UUID) (*domain.Block, error) {
	if m.GetByIDFunc == nil {
		panic("blockRepoMock.GetByIDFunc: method is nil but blockRepo.GetByID was just called")
	}
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, blockID)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, ownerID, blockID)
}

func (m *blockRepoMock) ListEnabled(ctx context.Context, ownerID uuid.UUID) ([]domain.Block, error) {
	if m.ListEnabledFunc == nil {
		panic("blockRepoMock.ListEnabledFunc: method is nil but blockRepo.ListEnabled was just called")
	}
	m.mu.Lock()
	m.calls.ListEnabled = append(m.calls.ListEnabled, ownerID)
	m.mu.Unlock()
	return m.ListEnabledFunc(ctx, ownerID)
}

func (m *blockRepoMock) ExistByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	if m.ExistByIDsFunc == nil {
		panic("blockRepoMock.ExistByIDsFunc: method is nil but blockRepo.ExistByIDs was just called")
	}
	m.mu.Lock()
	m.calls.ExistByIDs = append(m.calls.ExistByIDs, ids)
	m.mu.Unlock()
	return m.ExistByIDsFunc(ctx, ownerID, ids)
}

func (m *blockRepoMock) ExistByIDsCalls() [][]uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.ExistByIDs
}

var _ choreRepo = &choreRepoMock{}

type choreRepoMock struct {
	CreateFunc          func(ctx context.Context, chore domain.Chore) (*domain.Chore, error)
	GetByIDFunc         func(ctx context.Context, ownerID, choreID uuid.UUID) (*domain.Chore, error)
	ListSchedulableFunc func(ctx context.Context, ownerID uuid.UUID) ([]domain.Chore, error)
	TouchLastDoneFunc   func(ctx context.Context, ownerID, choreID uuid.UUID, at time.Time) error
	SetSnoozedUntilFunc func(ctx context.Context, ownerID, choreID uuid.UUID, until time.Time) error

	calls struct {
		Create          []domain.Chore
		GetByID         []uuid.UUID
		ListSchedulable []uuid.UUID
		TouchLastDone   []time.Time
		SetSnoozedUntil []time.Time
	}
	mu sync.Mutex
}

func (m *choreRepoMock) Create(ctx context.Context, chore domain.Chore) (*domain.Chore, error) {
	if m.CreateFunc == nil {
		panic("choreRepoMock.CreateFunc: method is nil but choreRepo.Create was just called")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, chore)
	m.mu.Unlock()
	return m.CreateFunc(ctx, chore)
}

func (m *choreRepoMock) GetByID(ctx context.Context, ownerID, choreID uuid.UUID) (*domain.Chore, error) {
	if m.GetByIDFunc == nil {
		panic("choreRepoMock.GetByIDFunc: method is nil but choreRepo.GetByID was just called")
	}
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, choreID)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, ownerID, choreID)
}

func (m *choreRepoMock) ListSchedulable(ctx context.Context, ownerID uuid.UUID) ([]domain.Chore, error) {
	if m.ListSchedulableFunc == nil {
		panic("choreRepoMock.ListSchedulableFunc: method is nil but choreRepo.ListSchedulable was just called")
	}
	m.mu.Lock()
	m.calls.ListSchedulable = append(m.calls.ListSchedulable, ownerID)
	m.mu.Unlock()
	return m.ListSchedulableFunc(ctx, ownerID)
}

func (m *choreRepoMock) TouchLastDone(ctx context.Context, ownerID, choreID uuid.UUID, at time.Time) error {
	if m.TouchLastDoneFunc == nil {
		panic("choreRepoMock.TouchLastDoneFunc: method is nil but choreRepo.TouchLastDone was just called")
	}
	m.mu.Lock()
	m.calls.TouchLastDone = append(m.calls.TouchLastDone, at)
	m.mu.Unlock()
	return m.TouchLastDoneFunc(ctx, ownerID, choreID, at)
}

func (m *choreRepoMock) TouchLastDoneCalls() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.TouchLastDone
}

func (m *choreRepoMock) SetSnoozedUntil(ctx context.Context, ownerID, choreID uuid.UUID, until time.Time) error {
	if m.SetSnoozedUntilFunc == nil {
		panic("choreRepoMock.SetSnoozedUntilFunc: method is nil but choreRepo.SetSnoozedUntil was just called")
	}
	m.mu.Lock()
	m.calls.SetSnoozedUntil = append(m.calls.SetSnoozedUntil, until)
	m.mu.Unlock()
	return m.SetSnoozedUntilFunc(ctx, ownerID, choreID, until)
}

func (m *choreRepoMock) SetSnoozedUntilCalls() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.SetSnoozedUntil
}

var _ routineRepo = &routineRepoMock{}

type routineRepoMock struct {
	CreateFunc          func(ctx context.Context, routine domain.Routine) (*domain.Routine, error)
	GetByIDFunc         func(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.Routine, error)
	ListSchedulableFunc func(ctx context.Context, ownerID uuid.UUID) ([]domain.Routine, error)
	TouchLastDoneFunc   func(ctx context.Context, ownerID, routineID uuid.UUID, at time.Time) error
	SetSnoozedUntilFunc func(ctx context.Context, ownerID, routineID uuid.UUID, until time.Time) error
}

func (m *routineRepoMock) Create(ctx context.Context, routine domain.Routine) (*domain.Routine, error) {
	if m.CreateFunc == nil {
		panic("routineRepoMock.CreateFunc: method is nil but routineRepo.Create was just called")
	}
	return m.CreateFunc(ctx, routine)
}

func (m *routineRepoMock) GetByID(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.Routine, error) {
	if m.GetByIDFunc == nil {
		panic("routineRepoMock.GetByIDFunc: method is nil but routineRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, ownerID, routineID)
}

func (m *routineRepoMock) ListSchedulable(ctx context.Context, ownerID uuid.UUID) ([]domain.Routine, error) {
	if m.ListSchedulableFunc == nil {
		panic("routineRepoMock.ListSchedulableFunc: method is nil but routineRepo.ListSchedulable was just called")
	}
	return m.ListSchedulableFunc(ctx, ownerID)
}

func (m *routineRepoMock) TouchLastDone(ctx context.Context, ownerID, routineID uuid.UUID, at time.Time) error {
	if m.TouchLastDoneFunc == nil {
		panic("routineRepoMock.TouchLastDoneFunc: method is nil but routineRepo.TouchLastDone was just called")
	}
	return m.TouchLastDoneFunc(ctx, ownerID, routineID, at)
}

func (m *routineRepoMock) SetSnoozedUntil(ctx context.Context, ownerID, routineID uuid.UUID, until time.Time) error {
	if m.SetSnoozedUntilFunc == nil {
		panic("routineRepoMock.SetSnoozedUntilFunc: method is nil but routineRepo.SetSnoozedUntil was just called")
	}
	return m.SetSnoozedUntilFunc(ctx, ownerID, routineID, until)
}

var _ instanceRepo = &instanceRepoMock{}

type instanceRepoMock struct {
	UpsertFunc       func(ctx context.Context, inst domain.ScheduledInstance) error
	GetByIDFunc      func(ctx context.Context, ownerID uuid.UUID, instanceID string) (*domain.ScheduledInstance, error)
	UpdateStatusFunc func(ctx context.Context, ownerID uuid.UUID, instanceID string, status domain.InstanceStatus, reason string, at time.Time) error
	ListFunc         func(ctx context.Context, ownerID uuid.UUID, filter domain.InstanceFilter) ([]domain.ScheduledInstance, error)

	calls struct {
		Upsert       []domain.ScheduledInstance
		GetByID      []string
		UpdateStatus []domain.InstanceStatus
		List         []domain.InstanceFilter
	}
	mu sync.Mutex
}

func (m *instanceRepoMock) Upsert(ctx context.Context, inst domain.ScheduledInstance) error {
	if m.UpsertFunc == nil {
		panic("instanceRepoMock.UpsertFunc: method is nil but instanceRepo.Upsert was just called")
	}
	m.mu.Lock()
	m.calls.Upsert = append(m.calls.Upsert, inst)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, inst)
}

func (m *instanceRepoMock) UpsertCalls() []domain.ScheduledInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Upsert
}

func (m *instanceRepoMock) GetByID(ctx context.Context, ownerID uuid.UUID, instanceID string) (*domain.ScheduledInstance, error) {
	if m.GetByIDFunc == nil {
		panic("instanceRepoMock.GetByIDFunc: method is nil but instanceRepo.GetByID was just called")
	}
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, instanceID)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, ownerID, instanceID)
}

func (m *instanceRepoMock) UpdateStatus(ctx context.Context, ownerID uuid.UUID, instanceID string, status domain.InstanceStatus, reason string, at time.Time) error {
	if m.UpdateStatusFunc == nil {
		panic("instanceRepoMock.UpdateStatusFunc: method is nil but instanceRepo.UpdateStatus was just called")
	}
	m.mu.Lock()
	m.calls.UpdateStatus = append(m.calls.UpdateStatus, status)
	m.mu.Unlock()
	return m.UpdateStatusFunc(ctx, ownerID, instanceID, status, reason, at)
}

func (m *instanceRepoMock) UpdateStatusCalls() []domain.InstanceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.UpdateStatus
}

func (m *instanceRepoMock) List(ctx context.Context, ownerID uuid.UUID, filter domain.InstanceFilter) ([]domain.ScheduledInstance, error) {
	if m.ListFunc == nil {
		panic("instanceRepoMock.ListFunc: method is nil but instanceRepo.List was just called")
	}
	m.mu.Lock()
	m.calls.List = append(m.calls.List, filter)
	m.mu.Unlock()
	return m.ListFunc(ctx, ownerID, filter)
}

var _ planJobRepo = &planJobRepoMock{}

type planJobRepoMock struct {
	UpsertFunc        func(ctx context.Context, state domain.PlanningJobState) error
	GetFunc           func(ctx context.Context, ownerID uuid.UUID, planningDate string) (*domain.PlanningJobState, error)
	MarkRunningFunc   func(ctx context.Context, key, solverRunID string, at time.Time) error
	MarkCompletedFunc func(ctx context.Context, key string, summary domain.PlanRunSummary, at time.Time) error

	calls struct {
		Upsert        []domain.PlanningJobState
		MarkRunning   []string
		MarkCompleted []domain.PlanRunSummary
	}
	mu sync.Mutex
}

func (m *planJobRepoMock) Upsert(ctx context.Context, state domain.PlanningJobState) error {
	if m.UpsertFunc == nil {
		panic("planJobRepoMock.UpsertFunc: method is nil but planJobRepo.Upsert was just called")
	}
	m.mu.Lock()
	m.calls.Upsert = append(m.calls.Upsert, state)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, state)
}

func (m *planJobRepoMock) UpsertCalls() []domain.PlanningJobState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Upsert
}

func (m *planJobRepoMock) Get(ctx context.Context, ownerID uuid.UUID, planningDate string) (*domain.PlanningJobState, error) {
	if m.GetFunc == nil {
		panic("planJobRepoMock.GetFunc: method is nil but planJobRepo.Get was just called")
	}
	return m.GetFunc(ctx, ownerID, planningDate)
}

func (m *planJobRepoMock) MarkRunning(ctx context.Context, key, solverRunID string, at time.Time) error {
	if m.MarkRunningFunc == nil {
		panic("planJobRepoMock.MarkRunningFunc: method is nil but planJobRepo.MarkRunning was just called")
	}
	m.mu.Lock()
	m.calls.MarkRunning = append(m.calls.MarkRunning, solverRunID)
	m.mu.Unlock()
	return m.MarkRunningFunc(ctx, key, solverRunID, at)
}

func (m *planJobRepoMock) MarkRunningCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.MarkRunning
}

func (m *planJobRepoMock) MarkCompleted(ctx context.Context, key string, summary domain.PlanRunSummary, at time.Time) error {
	if m.MarkCompletedFunc == nil {
		panic("planJobRepoMock.MarkCompletedFunc: method is nil but planJobRepo.MarkCompleted was just called")
	}
	m.mu.Lock()
	m.calls.MarkCompleted = append(m.calls.MarkCompleted, summary)
	m.mu.Unlock()
	return m.MarkCompletedFunc(ctx, key, summary, at)
}

func (m *planJobRepoMock) MarkCompletedCalls() []domain.PlanRunSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.MarkCompleted
}

var _ solverClient = &solverClientMock{}

type solverClientMock struct {
	PlanFunc func(ctx context.Context, ownerID uuid.UUID, req domain.PlanRequest) (domain.PlanResponse, error)

	calls struct {
		Plan []domain.PlanRequest
	}
	mu sync.Mutex
}

func (m *solverClientMock) Plan(ctx context.Context, ownerID uuid.UUID, req domain.PlanRequest) (domain.PlanResponse, error) {
	if m.PlanFunc == nil {
		panic("solverClientMock.PlanFunc: method is nil but solverClient.Plan was just called")
	}
	m.mu.Lock()
	m.calls.Plan = append(m.calls.Plan, req)
	m.mu.Unlock()
	return m.PlanFunc(ctx, ownerID, req)
}

func (m *solverClientMock) PlanCalls() []domain.PlanRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Plan
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback inline, which is what every service test
// wants.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
