package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/pkg/apperrors"
)

// AnnouncementService handles lab announcement management
type AnnouncementService struct {
	announcementRepo *repositories.AnnouncementRepository
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(announcementRepo *repositories.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
	}
}

// Create posts a new announcement, visible immediately
func (s *AnnouncementService) Create(ctx context.Context, title, content string) (*models.Announcement, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("title and content are required")
	}

	announcement := &models.Announcement{
		Title:   title,
		Content: content,
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("error creating announcement: %w", err)
	}

	return announcement, nil
}

// ListAll retrieves every announcement for administrators
func (s *AnnouncementService) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.List(ctx, false)
}

// ListActive retrieves the announcements currently shown to students
func (s *AnnouncementService) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.List(ctx, true)
}

// Toggle flips an announcement's visibility
func (s *AnnouncementService) Toggle(ctx context.Context, id int64) error {
	if err := s.announcementRepo.Toggle(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrAnnouncementNotFound) {
			return apperrors.ErrAnnouncementNotFound
		}
		return fmt.Errorf("error toggling announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement
func (s *AnnouncementService) Delete(ctx context.Context, id int64) error {
	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrAnnouncementNotFound) {
			return apperrors.ErrAnnouncementNotFound
		}
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	return nil
}
