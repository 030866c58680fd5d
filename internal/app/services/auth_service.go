package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/pkg/apperrors"
	"github.com/ccslab/sitin/internal/pkg/auth"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

// AuthService handles registration and login for students and administrators
type AuthService struct {
	studentRepo *repositories.StudentRepository
	adminRepo   *repositories.AdminRepository
	jwtService  *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(studentRepo *repositories.StudentRepository, adminRepo *repositories.AdminRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		studentRepo: studentRepo,
		adminRepo:   adminRepo,
		jwtService:  jwtService,
	}
}

// RegisterStudent creates a student account. The quota ceiling is derived
// from the program of study and the consumption counter starts at zero.
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterRequest) (*models.Student, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		IDNumber:     req.IDNumber,
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		Course:       req.Course,
		YearLevel:    req.YearLevel,
		Email:        req.Email,
		Username:     req.Username,
		Password:     hashed,
		SessionsUsed: 0,
		MaxSessions:  AssignQuota(req.Course),
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStudentIDExists):
			return nil, apperrors.ErrStudentIDExists
		case errors.Is(err, repositories.ErrUsernameExists):
			return nil, apperrors.ErrUsernameExists
		case errors.Is(err, repositories.ErrEmailExists):
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error registering student: %w", err)
	}

	return student, nil
}

// Login authenticates a username/password pair against the student accounts
// first and the administrator accounts second, and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	student, err := s.studentRepo.GetByUsername(ctx, req.Username)
	if err == nil {
		if !auth.CheckPassword(student.Password, req.Password) {
			return nil, apperrors.ErrInvalidCredentials
		}
		token, expiresIn, err := s.jwtService.GenerateToken(student.ID, student.Username, string(models.RoleStudent))
		if err != nil {
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}
		logger.Info().Int64("studentID", student.ID).Msg("Student logged in")
		return &dto.AuthResponse{
			Token:     token,
			ExpiresIn: expiresIn,
			Role:      models.RoleStudent,
			Student:   student,
		}, nil
	}
	if !errors.Is(err, repositories.ErrStudentNotFound) {
		return nil, fmt.Errorf("error looking up student: %w", err)
	}

	admin, err := s.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up admin: %w", err)
	}

	if !auth.CheckPassword(admin.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(admin.ID, admin.Username, string(models.RoleAdmin))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info().Int64("adminID", admin.ID).Msg("Administrator logged in")
	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Role:      models.RoleAdmin,
		Admin:     admin,
	}, nil
}
