package dto

import (
	"github.com/Chucky-Funds/earnova/model"
)

// ==================== TASK POOL DTOs ====================

type TaskPoolResponse struct {
	Type         string      `json:"type"`
	Tasks        interface{} `json:"tasks"`
	CompletedIDs []string    `json:"completed_ids"`
	Quota        QuotaStatus `json:"quota"`
}

type QuotaStatus struct {
	Used             int    `json:"used"`
	Limit            int    `json:"limit"`
	LimitReached     bool   `json:"limit_reached"`
	ResetsInSeconds  int    `json:"resets_in_seconds"`
	ResetsAtMidnight string `json:"resets_at"`
}

// ==================== COMPLETION DTOs ====================

type ReportDurationRequest struct {
	TaskID          string  `json:"task_id" validate:"required"`
	DurationMinutes float64 `json:"duration_minutes" validate:"required,gt=0"`
}

func (r ReportDurationRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteSurveyRequest struct {
	TaskID  string            `json:"task_id" validate:"required"`
	Answers map[string]string `json:"answers" validate:"required"`
}

func (c CompleteSurveyRequest) Validate() error {
	return GetValidator().Struct(c)
}

type VisitStatusResponse struct {
	TaskID           string `json:"task_id"`
	URL              string `json:"url"`
	RequiredSeconds  int    `json:"required_seconds"`
	ElapsedSeconds   int    `json:"elapsed_seconds"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

type CompletionResponse struct {
	TaskID     string           `json:"task_id"`
	Reward     model.TaskReward `json:"reward"`
	NewBalance string           `json:"new_balance"`
	XP         int              `json:"xp"`
	Level      int              `json:"level"`
}

// ==================== DASHBOARD DTOs ====================

// ProgressionSnapshot is the level model as the dashboard sees it.
type ProgressionSnapshot struct {
	XP             int     `json:"xp"`
	XPLevel        int     `json:"xp_level"`
	PaidLevel      int     `json:"paid_level"`
	EffectiveLevel int     `json:"effective_level"`
	NextLevelXP    int     `json:"next_level_xp"`
	LevelProgress  float64 `json:"level_progress"`
}

type DashboardResponse struct {
	Balance        string       `json:"balance"`
	CompletedCount int          `json:"completed_count"`
	XP             int          `json:"xp"`
	Level          int          `json:"level"`
	PaidLevel      int          `json:"paid_level"`
	EffectiveLevel int          `json:"effective_level"`
	NextLevelXP    int          `json:"next_level_xp"`
	LevelProgress  float64      `json:"level_progress"`
	CanWithdraw    bool         `json:"can_withdraw"`
	Quotas         []QuotaEntry `json:"quotas"`
	ResetsIn       int          `json:"resets_in_seconds"`
	QuotaEpoch     int64        `json:"quota_epoch"`
}

type QuotaEntry struct {
	Type  string `json:"type"`
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
}

// ==================== LEVEL UPGRADE DTOs ====================

type UpgradeEligibilityResponse struct {
	CanUpgrade     bool   `json:"can_upgrade"`
	Reason         string `json:"reason,omitempty"`
	CurrentPaid    int    `json:"current_paid_level"`
	XPLevel        int    `json:"xp_level"`
	EffectiveLevel int    `json:"effective_level"`
	Fee            string `json:"fee"`
}
