package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"github.com/quizo-app/quiz-service/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*models.User, error)
	Teachers(ctx context.Context) ([]*models.User, error)

	// DeleteTeacher removes a teacher account. The requester must hold the
	// admin role; the client-side-only admin flag of earlier iterations is
	// not trusted.
	DeleteTeacher(ctx context.Context, teacherID, requesterID string) error
}

// ===== REQUEST STRUCTURES =====

type SignUpRequest struct {
	UserType models.UserRole `json:"userType" validate:"omitempty,user_role"`
	UserName string          `json:"userName" validate:"required,min=1,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
}

func NewUserService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) SignUp(ctx context.Context, req *SignUpRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.User().EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.UserType
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return user, nil
}

func (s *userService) Teachers(ctx context.Context) ([]*models.User, error) {
	teachers, err := s.repo.User().GetByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return teachers, nil
}

func (s *userService) DeleteTeacher(ctx context.Context, teacherID, requesterID string) error {
	requester, err := s.repo.User().GetByID(ctx, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrForbidden
		}
		return fmt.Errorf("failed to get requester: %w", err)
	}
	if requester.Role != models.RoleAdmin {
		return ErrForbidden
	}

	teacher, err := s.repo.User().GetByID(ctx, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher.Role != models.RoleTeacher {
		return ErrUserNotFound
	}

	if err := s.repo.User().Delete(ctx, teacherID); err != nil {
		return fmt.Errorf("failed to delete teacher: %w", err)
	}

	s.logger.Info("Teacher deleted", "teacher_id", teacherID, "requested_by", requesterID)
	return nil
}
