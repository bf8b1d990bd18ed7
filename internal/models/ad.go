package models

import (
	"time"
)

type AdType string

const (
	AdTypeOnline  AdType = "online"
	AdTypeOffline AdType = "offline"
)

type AdEntry struct {
	ID          int64     `db:"id" json:"id"`
	ProjectName string    `db:"project_name" json:"project_name"`
	ProjectID   string    `db:"project_id" json:"project_id"`
	Source      string    `db:"source" json:"source"`
	SourceURL   *string   `db:"source_url" json:"source_url"`
	Type        AdType    `db:"type" json:"type"`
	ClickCount  int64     `db:"click_count" json:"click_count"`
	Cost        float64   `db:"cost" json:"cost"`
	Score       float64   `db:"score" json:"score"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateAdRequest is the caller-supplied part of an entry. A nil or zero
// Score means the score is computed from clicks, cost and source.
type CreateAdRequest struct {
	ProjectName string   `json:"project_name" validate:"required,max=255"`
	ProjectID   string   `json:"project_id" validate:"required,max=64"`
	Source      string   `json:"source" validate:"required,max=64"`
	SourceURL   *string  `json:"source_url,omitempty" validate:"omitempty,url"`
	Type        AdType   `json:"type,omitempty" validate:"omitempty,oneof=online offline"`
	ClickCount  int64    `json:"click_count" validate:"gte=0"`
	Cost        float64  `json:"cost" validate:"gte=0"`
	Score       *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=10"`
}

type UpdateAdRequest = CreateAdRequest

func (r *CreateAdRequest) ScoreUnset() bool {
	return r.Score == nil || *r.Score == 0
}

// ToEntry copies the request fields into a new entry with the given score.
func (r *CreateAdRequest) ToEntry(score float64) *AdEntry {
	adType := r.Type
	if adType == "" {
		adType = AdTypeOnline
	}

	return &AdEntry{
		ProjectName: r.ProjectName,
		ProjectID:   r.ProjectID,
		Source:      r.Source,
		SourceURL:   r.SourceURL,
		Type:        adType,
		ClickCount:  r.ClickCount,
		Cost:        r.Cost,
		Score:       score,
	}
}
