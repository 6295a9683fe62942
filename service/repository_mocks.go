package service

import (
	"context"

	"payouts/events"
	"payouts/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, email, name, passwordHash string, initialBalance models.Cents) (*models.User, error) {
	args := m.Called(ctx, email, name, passwordHash, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetLeaderboard(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateBalance(ctx context.Context, id int64, newBalance models.Cents) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

// MockPendingUpdateRepository is a mock implementation of PendingUpdateRepository
type MockPendingUpdateRepository struct {
	mock.Mock
}

func (m *MockPendingUpdateRepository) Create(ctx context.Context, update *models.PendingUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockPendingUpdateRepository) GetByID(ctx context.Context, id int64) (*models.PendingUpdate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingUpdate), args.Error(1)
}

func (m *MockPendingUpdateRepository) GetAll(ctx context.Context) ([]*models.PendingUpdate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingUpdate), args.Error(1)
}

func (m *MockPendingUpdateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher that
// records published events for assertions.
type MockEventPublisher struct {
	mock.Mock
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories
// are wired with SetRepositories instead of mock expectations.
type MockUnitOfWork struct {
	mock.Mock
	userRepo          UserRepository
	pendingUpdateRepo PendingUpdateRepository
	eventPublisher    EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, pendingUpdateRepo PendingUpdateRepository, eventPublisher EventPublisher) {
	m.userRepo = userRepo
	m.pendingUpdateRepo = pendingUpdateRepo
	if eventPublisher == nil {
		eventPublisher = &noopEventPublisher{}
	}
	m.eventPublisher = eventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) PendingUpdateRepository() PendingUpdateRepository {
	return m.pendingUpdateRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// noopEventPublisher drops events, for tests that don't assert on them
type noopEventPublisher struct{}

func (n *noopEventPublisher) Publish(event events.Event) {}
