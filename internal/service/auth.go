package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/logger"
	"credicaja-backend/internal/repository"
	"credicaja-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	logger.EnterMethod("AuthService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		logger.ExitMethodWithError("AuthService.Login", err)
		return "", nil, domain.NewValidationError("credentials", "invalid email or password")
	}
	if !user.Active {
		return "", nil, domain.NewStateConflictError("user", "account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.NewValidationError("credentials", "invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		logger.ExitMethodWithError("AuthService.Login", err)
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.ExitMethod("AuthService.Login", "user_id", user.ID)
	return token, user, nil
}

func (s *authService) CreateUser(ctx context.Context, actor domain.Actor, name, email, password string, role domain.Role) (*domain.User, error) {
	logger.EnterMethod("AuthService.CreateUser", "actor_id", actor.UserID, "role", role)

	if actor.Role != domain.RoleAdministrator {
		return nil, fmt.Errorf("only administrators may create users: %w", domain.ErrForbidden)
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "must be a valid email address")
	}
	if len(password) < 8 {
		return nil, domain.NewValidationError("password", "must be at least 8 characters")
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.NewStateConflictError("user", "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("AuthService.CreateUser", err)
		return nil, err
	}

	logger.ExitMethod("AuthService.CreateUser", "user_id", user.ID)
	return user, nil
}

func (s *authService) SetUserActive(ctx context.Context, actor domain.Actor, userID int64, active bool) error {
	if actor.Role != domain.RoleAdministrator {
		return fmt.Errorf("only administrators may change account status: %w", domain.ErrForbidden)
	}
	if actor.UserID == userID && !active {
		return domain.NewStateConflictError("user", "cannot disable own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Active = active
	return s.userRepo.Update(ctx, user)
}

func (s *authService) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if !actor.Role.ManagerLevel() {
		return nil, fmt.Errorf("only managers may list users: %w", domain.ErrForbidden)
	}
	return s.userRepo.List(ctx)
}
