package service

import (
	"context"
	"testing"

	"payouts/events"
	"payouts/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newAuthMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockEventPublisher) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockUserRepo, new(MockPendingUpdateRepository), mockPublisher)
	return mockFactory, mockUoW, mockUserRepo, mockPublisher
}

func TestAuthService_SignUp_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockPublisher := newAuthMocks()

	service := NewAuthService(mockFactory, events.NewBus(), testJWTSecret)

	created := &models.User{ID: 7, Email: "asha@example.com", Name: "Asha", Balance: 0}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByEmail", ctx, "asha@example.com").Return(nil, nil)
	mockUserRepo.On("Create", ctx, "asha@example.com", "Asha", mock.MatchedBy(func(hash string) bool {
		// The stored hash must verify against the submitted password
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")) == nil
	}), StartingBalance).Return(created, nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	user, err := service.SignUp(ctx, "Asha", "Asha@Example.com", "hunter22")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.Cents(0), user.Balance)

	require.Len(t, mockPublisher.Events, 1)
	createdEvent, ok := mockPublisher.Events[0].(events.UserCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(7), createdEvent.UserID)

	mockUserRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _ := newAuthMocks()

	service := NewAuthService(mockFactory, events.NewBus(), testJWTSecret)

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "asha@example.com", "hunter22"},
		{"empty email", "Asha", "", "hunter22"},
		{"empty password", "Asha", "asha@example.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := service.SignUp(ctx, tc.userName, tc.email, tc.password)
			assert.Nil(t, user)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	// Validation failures never reach the store
	mockFactory.AssertNotCalled(t, "Create")
}

func TestAuthService_SignUp_EmailTaken(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newAuthMocks()

	service := NewAuthService(mockFactory, events.NewBus(), testJWTSecret)

	existing := &models.User{ID: 7, Email: "asha@example.com", Name: "Asha"}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByEmail", ctx, "asha@example.com").Return(existing, nil)

	user, err := service.SignUp(ctx, "Asha Again", "asha@example.com", "hunter22")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailTaken)
	mockUserRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_LogIn_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newAuthMocks()

	service := NewAuthService(mockFactory, events.NewBus(), testJWTSecret)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: 7, Email: "asha@example.com", Name: "Asha", PasswordHash: string(hash)}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByEmail", ctx, "asha@example.com").Return(user, nil)

	token, loggedIn, err := service.LogIn(ctx, "ASHA@example.com", "hunter22")

	require.NoError(t, err)
	require.NotNil(t, loggedIn)
	require.NotEmpty(t, token)

	// Token must parse and carry the user's identity
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "7", claims["sub"])
	assert.Equal(t, "asha@example.com", claims["email"])
	assert.Equal(t, "Asha", claims["name"])
}

func TestAuthService_LogIn_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newAuthMocks()

	service := NewAuthService(mockFactory, events.NewBus(), testJWTSecret)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

	token, user, err := service.LogIn(ctx, "nobody@example.com", "hunter22")

	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LogIn_WrongPassword(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newAuthMocks()

	service := NewAuthService(mockFactory, events.NewBus(), testJWTSecret)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: 7, Email: "asha@example.com", PasswordHash: string(hash)}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByEmail", ctx, "asha@example.com").Return(user, nil)

	token, loggedIn, err := service.LogIn(ctx, "asha@example.com", "wrong")

	assert.Empty(t, token)
	assert.Nil(t, loggedIn)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SessionChangeNotifications(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newAuthMocks()

	bus := events.NewBus()
	received := make(chan events.SessionChangeEvent, 2)
	bus.Subscribe(events.EventTypeSessionChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SessionChangeEvent); ok {
			received <- e
		}
	})

	service := NewAuthService(mockFactory, bus, testJWTSecret)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 7, Email: "asha@example.com", Name: "Asha", PasswordHash: string(hash)}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByEmail", ctx, "asha@example.com").Return(user, nil)

	_, _, err = service.LogIn(ctx, "asha@example.com", "hunter22")
	require.NoError(t, err)

	signedIn := <-received
	assert.True(t, signedIn.SignedIn)
	assert.Equal(t, int64(7), signedIn.UserID)

	service.LogOut(ctx, 7, "asha@example.com")

	signedOut := <-received
	assert.False(t, signedOut.SignedIn)
	assert.Equal(t, int64(7), signedOut.UserID)
}
