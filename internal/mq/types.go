package mq

import (
	"time"
)

// ClickMessage represents a click event message sent through RocketMQ for
// asynchronous persistence.
type ClickMessage struct {
	EventID       string    `json:"event_id"`
	LinkID        int64     `json:"link_id"`
	Slug          string    `json:"slug"`
	UserAgent     string    `json:"user_agent"`
	ClientIP      string    `json:"client_ip"`
	Referrer      string    `json:"referrer"`
	Device        string    `json:"device"`
	Browser       string    `json:"browser"`
	PlatformClass string    `json:"platform_class"`
	IsSocialApp   bool      `json:"is_social_app"`
	UTMSource     string    `json:"utm_source"`
	UTMMedium     string    `json:"utm_medium"`
	UTMCampaign   string    `json:"utm_campaign"`
	ClickedAt     time.Time `json:"clicked_at"`
}
