package models

import (
	"time"
)

// AnalysisType represents the kind of analysis that was run
type AnalysisType string

const (
	AnalysisHedgeCalculation AnalysisType = "hedge_calculation"
	AnalysisPriceStatistics  AnalysisType = "price_statistics"
	AnalysisOptionPricing    AnalysisType = "option_pricing"
)

// AnalysisRecord is one entry in a user's analysis history. Records are
// append-only; they disappear only through an owner-scoped delete or the
// user cascade.
type AnalysisRecord struct {
	AnalysisID   string       `gorm:"primaryKey;size:40" json:"analysis_id"`
	UserID       string       `gorm:"size:40;not null;index" json:"user_id"`
	AnalysisType AnalysisType `gorm:"size:50;not null" json:"analysis_type"`
	InputParams  string       `gorm:"type:text" json:"input_params"`
	ResultData   string       `gorm:"type:text" json:"result_data"`
	CreatedAt    time.Time    `gorm:"index:idx_analysis_history_created_at,sort:desc" json:"created_at"`
}

// TableName specifies the table name for AnalysisRecord model
func (AnalysisRecord) TableName() string {
	return "analysis_history"
}

// UserActivityStats is a row of the user_activity_stats view: one active
// user with an aggregate over their analysis history. Read-only.
type UserActivityStats struct {
	UserID           string           `json:"user_id"`
	Username         string           `json:"username"`
	Email            string           `json:"email"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	CreatedAt        time.Time        `json:"created_at"`
	LastLogin        *time.Time       `json:"last_login"`
	TotalAnalyses    int64            `json:"total_analyses"`
	LastAnalysisTime *time.Time       `json:"last_analysis_time"`
}

// TableName specifies the view name for UserActivityStats
func (UserActivityStats) TableName() string {
	return "user_activity_stats"
}
