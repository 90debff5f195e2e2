package model

import (
	"strings"
	"time"
)

// Link represents a smart link entity
type Link struct {
	ID                  int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug                string    `json:"slug" gorm:"type:varchar(64);uniqueIndex;not null"`
	WebFallback         string    `json:"web_fallback" gorm:"type:varchar(2048);not null"`
	IOSURL              string    `json:"ios_url" gorm:"type:varchar(2048)"`
	AndroidURL          string    `json:"android_url" gorm:"type:varchar(2048)"`
	IOSAppStoreURL      string    `json:"ios_appstore_url" gorm:"type:varchar(512)"`
	AndroidPlayStoreURL string    `json:"android_playstore_url" gorm:"type:varchar(512)"`
	Title               string    `json:"title" gorm:"type:varchar(255)"`
	Platform            string    `json:"platform" gorm:"type:varchar(32);index"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for Link
func (Link) TableName() string {
	return "smart_links"
}

// DeepLink returns the stored deep-link URI for the given device
// ("ios" or "android"), or empty string if none is stored.
func (l *Link) DeepLink(device string) string {
	switch device {
	case "ios":
		return l.IOSURL
	case "android":
		return l.AndroidURL
	}
	return ""
}

// StoreURL returns the app store URL for the given device, or empty string.
func (l *Link) StoreURL(device string) string {
	switch device {
	case "ios":
		return l.IOSAppStoreURL
	case "android":
		return l.AndroidPlayStoreURL
	}
	return ""
}

// HasUniversalLink reports whether the iOS target is an https Universal Link
// rather than a custom scheme.
func (l *Link) HasUniversalLink() bool {
	return strings.HasPrefix(l.IOSURL, "https://") || strings.HasPrefix(l.IOSURL, "http://")
}

// CreateLinkRequest represents the request to create a smart link
type CreateLinkRequest struct {
	Slug                string `json:"slug" binding:"required"`
	WebFallback         string `json:"web_fallback" binding:"required,url"`
	IOSURL              string `json:"ios_url"`
	AndroidURL          string `json:"android_url"`
	IOSAppStoreURL      string `json:"ios_appstore_url"`
	AndroidPlayStoreURL string `json:"android_playstore_url"`
	Title               string `json:"title"`
}

// UpdateLinkRequest represents the request to update a smart link.
// Pointer fields distinguish "leave unchanged" from "clear".
type UpdateLinkRequest struct {
	Slug                *string `json:"slug"`
	WebFallback         *string `json:"web_fallback"`
	IOSURL              *string `json:"ios_url"`
	AndroidURL          *string `json:"android_url"`
	IOSAppStoreURL      *string `json:"ios_appstore_url"`
	AndroidPlayStoreURL *string `json:"android_playstore_url"`
	Title               *string `json:"title"`
}

// ParseRequest represents the request to preview deep-link synthesis for a URL
type ParseRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// LinkResponse represents a link with its click count
type LinkResponse struct {
	Link
	ClickCount int64 `json:"click_count"`
}
