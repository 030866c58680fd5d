package services

import (
	"context"
	"fmt"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/repositories"
)

// DefaultLanguages are always present in the language breakdown, zero-filled
// when unused
var DefaultLanguages = []string{"PHP", "Java", "Python", "JavaScript", "C++", "C#", "Ruby", "Swift"}

// DefaultLabRooms are always present in the lab breakdown, zero-filled when
// unused
var DefaultLabRooms = []string{
	"Lab 1", "Lab 2", "Lab 3", "Lab 4", "Lab 5", "Lab 6",
	"Lab 7", "Lab 8", "Lab 9", "Lab 10", "Lab 11",
}

// StatsService assembles the aggregate usage view for the administrator
// dashboard
type StatsService struct {
	studentRepo  *repositories.StudentRepository
	sessionRepo  *repositories.SessionRepository
	feedbackRepo *repositories.FeedbackRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(studentRepo *repositories.StudentRepository, sessionRepo *repositories.SessionRepository, feedbackRepo *repositories.FeedbackRepository) *StatsService {
	return &StatsService{
		studentRepo:  studentRepo,
		sessionRepo:  sessionRepo,
		feedbackRepo: feedbackRepo,
	}
}

// UsageStats computes the dashboard aggregates
func (s *StatsService) UsageStats(ctx context.Context) (*dto.UsageStats, error) {
	stats := &dto.UsageStats{}

	var err error
	if stats.TotalStudents, err = s.studentRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	if stats.PendingSessions, err = s.sessionRepo.CountByStatus(ctx, models.SessionPending); err != nil {
		return nil, fmt.Errorf("error counting pending sessions: %w", err)
	}

	if stats.ActiveSessions, err = s.sessionRepo.CountByStatus(ctx, models.SessionApproved, models.SessionCheckedIn); err != nil {
		return nil, fmt.Errorf("error counting active sessions: %w", err)
	}

	if stats.CurrentSitIns, err = s.sessionRepo.CountCurrentSitIns(ctx); err != nil {
		return nil, fmt.Errorf("error counting current sit-ins: %w", err)
	}

	languageStats, err := s.sessionRepo.LanguageStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("error computing language stats: %w", err)
	}
	stats.LanguageStats = fillMissingLanguages(languageStats)

	labStats, err := s.sessionRepo.LabRoomStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("error computing lab stats: %w", err)
	}
	stats.LabStats = fillMissingLabs(labStats)

	feedback, err := s.feedbackRepo.Aggregate(ctx)
	if err != nil {
		return nil, fmt.Errorf("error aggregating feedback: %w", err)
	}
	stats.Feedback = *feedback

	if stats.RecentActivity, err = s.sessionRepo.RecentActivity(ctx, 10); err != nil {
		return nil, fmt.Errorf("error loading recent activity: %w", err)
	}

	return stats, nil
}

// fillMissingLanguages appends zero entries for default languages absent from
// the aggregation
func fillMissingLanguages(stats []dto.LanguageStat) []dto.LanguageStat {
	present := make(map[string]bool, len(stats))
	for _, s := range stats {
		present[s.ProgrammingLanguage] = true
	}
	for _, name := range DefaultLanguages {
		if !present[name] {
			stats = append(stats, dto.LanguageStat{ProgrammingLanguage: name})
		}
	}
	return stats
}

// fillMissingLabs appends zero entries for default lab rooms absent from the
// aggregation
func fillMissingLabs(stats []dto.LabRoomStat) []dto.LabRoomStat {
	present := make(map[string]bool, len(stats))
	for _, s := range stats {
		present[s.LabRoom] = true
	}
	for _, name := range DefaultLabRooms {
		if !present[name] {
			stats = append(stats, dto.LabRoomStat{LabRoom: name})
		}
	}
	return stats
}
