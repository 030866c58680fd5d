package dto

import "time"

// LanguageStat is the usage share of one programming language
type LanguageStat struct {
	ProgrammingLanguage string  `json:"programmingLanguage"`
	Count               int     `json:"count"`
	Percentage          float64 `json:"percentage"`
}

// LabRoomStat is the usage share of one lab room
type LabRoomStat struct {
	LabRoom    string  `json:"labRoom"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	TotalHours int     `json:"totalHours"`
}

// FeedbackStats aggregates submitted session ratings
type FeedbackStats struct {
	TotalFeedback    int     `json:"totalFeedback"`
	AverageRating    float64 `json:"averageRating"`
	PositiveFeedback int     `json:"positiveFeedback"` // Rating >= 4
	NegativeFeedback int     `json:"negativeFeedback"` // Rating <= 2
}

// ActivityEvent is one row of the recent activity feed
type ActivityEvent struct {
	SessionID int64     `json:"sessionId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	LabRoom   string    `json:"labRoom"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// UsageStats is the aggregate view served to the administrator dashboard
type UsageStats struct {
	TotalStudents   int             `json:"totalStudents"`
	PendingSessions int             `json:"pendingSessions"`
	ActiveSessions  int             `json:"activeSessions"`
	CurrentSitIns   int             `json:"currentSitIns"`
	LanguageStats   []LanguageStat  `json:"languageStats"`
	LabStats        []LabRoomStat   `json:"labStats"`
	Feedback        FeedbackStats   `json:"feedback"`
	RecentActivity  []ActivityEvent `json:"recentActivity"`
}

// QuotaReconciliation reports the outcome of a maintenance reconciliation pass
type QuotaReconciliation struct {
	CeilingsCorrected int `json:"ceilingsCorrected"`
	CountersCorrected int `json:"countersCorrected"`
}
