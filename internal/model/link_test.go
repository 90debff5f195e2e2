package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLink_TableName(t *testing.T) {
	assert.Equal(t, "smart_links", Link{}.TableName())
}

func TestLink_DeepLink(t *testing.T) {
	link := &Link{
		IOSURL:     "youtube://watch?v=abc",
		AndroidURL: "vnd.youtube://watch?v=abc",
	}

	assert.Equal(t, "youtube://watch?v=abc", link.DeepLink("ios"))
	assert.Equal(t, "vnd.youtube://watch?v=abc", link.DeepLink("android"))
	assert.Empty(t, link.DeepLink("desktop"))
	assert.Empty(t, link.DeepLink(""))
}

func TestLink_StoreURL(t *testing.T) {
	link := &Link{
		IOSAppStoreURL:      "https://apps.apple.com/app/youtube/id544007664",
		AndroidPlayStoreURL: "https://play.google.com/store/apps/details?id=com.google.android.youtube",
	}

	assert.Equal(t, link.IOSAppStoreURL, link.StoreURL("ios"))
	assert.Equal(t, link.AndroidPlayStoreURL, link.StoreURL("android"))
	assert.Empty(t, link.StoreURL("desktop"))
}

func TestLink_HasUniversalLink(t *testing.T) {
	assert.True(t, (&Link{IOSURL: "https://instagram.com/p/abc/"}).HasUniversalLink())
	assert.False(t, (&Link{IOSURL: "instagram://media?id=abc"}).HasUniversalLink())
	assert.False(t, (&Link{}).HasUniversalLink())
}
