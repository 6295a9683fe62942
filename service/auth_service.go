package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payouts/events"
	"payouts/models"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// StartingBalance is the balance a new account is created with
const StartingBalance models.Cents = 0

// TokenTTL is how long an issued session token stays valid
const TokenTTL = 24 * time.Hour

// authService implements the AuthService interface
type authService struct {
	uowFactory UnitOfWorkFactory
	eventBus   *events.Bus
	jwtSecret  []byte
}

// NewAuthService creates a new auth service
func NewAuthService(uowFactory UnitOfWorkFactory, eventBus *events.Bus, jwtSecret string) AuthService {
	return &authService{
		uowFactory: uowFactory,
		eventBus:   eventBus,
		jwtSecret:  []byte(jwtSecret),
	}
}

// SignUp creates a new account with a zero starting balance. Signing up
// does not sign the user in; a login follows.
func (s *authService) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, newValidationError("name", "must not be empty")
	}
	if email == "" {
		return nil, newValidationError("email", "must not be empty")
	}
	if password == "" {
		return nil, newValidationError("password", "must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user, err := uow.UserRepository().Create(ctx, email, name, string(hash), StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.Name,
		InitialBalance: user.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// LogIn verifies credentials and returns a signed session token
func (s *authService) LogIn(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"name":  user.Name,
		"exp":   now.Add(TokenTTL).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.eventBus.Emit(ctx, events.SessionChangeEvent{
		UserID:   user.ID,
		Email:    user.Email,
		SignedIn: true,
	})

	return signed, user, nil
}

// LogOut emits the session-change notification for a signed-out
// identity. Tokens are stateless; discarding the token is the caller's
// side of logout.
func (s *authService) LogOut(ctx context.Context, userID int64, email string) {
	log.WithFields(log.Fields{
		"userID": userID,
		"email":  email,
	}).Info("User logged out")

	s.eventBus.Emit(ctx, events.SessionChangeEvent{
		UserID:   userID,
		Email:    email,
		SignedIn: false,
	})
}

// GetUser retrieves a user by ID, nil if not found
func (s *authService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
