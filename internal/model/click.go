package model

import (
	"time"
)

// Click represents a single click event on a smart link
type Click struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID       string    `json:"event_id" gorm:"type:varchar(36);uniqueIndex"`
	LinkID        int64     `json:"link_id" gorm:"index;not null"`
	Slug          string    `json:"slug" gorm:"type:varchar(64);index"`
	UserAgent     string    `json:"user_agent" gorm:"type:varchar(512)"`
	ClientIP      string    `json:"client_ip" gorm:"type:varchar(64)"`
	Referrer      string    `json:"referrer" gorm:"type:varchar(512)"`
	Device        string    `json:"device" gorm:"type:varchar(16)"`
	Browser       string    `json:"browser" gorm:"type:varchar(16)"`
	PlatformClass string    `json:"platform_class" gorm:"type:varchar(16)"`
	IsSocialApp   bool      `json:"is_social_app"`
	UTMSource     string    `json:"utm_source" gorm:"type:varchar(128)"`
	UTMMedium     string    `json:"utm_medium" gorm:"type:varchar(128)"`
	UTMCampaign   string    `json:"utm_campaign" gorm:"type:varchar(128)"`
	ClickedAt     time.Time `json:"clicked_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for Click
func (Click) TableName() string {
	return "clicks"
}

// AnalyticsResponse represents the analytics data for a slug
type AnalyticsResponse struct {
	Slug     string           `json:"slug"`
	PV       int64            `json:"pv"`
	UV       int64            `json:"uv"`
	Devices  map[string]int64 `json:"devices"`
	Browsers map[string]int64 `json:"browsers"`
}

// Stats represents page view / unique visitor counters
type Stats struct {
	PV int64 `json:"pv"`
	UV int64 `json:"uv"`
}
