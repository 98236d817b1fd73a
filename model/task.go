package model

import "time"

// VideoTask is a watchable catalog entry. DurationMinutes is 0 when the
// source did not report a length.
type VideoTask struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	Thumbnail       string  `json:"thumbnail,omitempty"`
	DurationMinutes float64 `json:"duration_minutes"`
}

type SurveyQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type SurveyTask struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Questions []SurveyQuestion `json:"questions"`
}

type WebsiteTask struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	RequiredSeconds int    `json:"required_seconds"`
}

// WebsiteVisit is the persisted in-flight dwell record. Only one may be
// active at a time.
type WebsiteVisit struct {
	TaskID          string    `json:"task_id"`
	URL             string    `json:"url"`
	StartedAt       time.Time `json:"started_at"`
	RequiredSeconds int       `json:"required_seconds"`
}
