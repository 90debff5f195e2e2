package platform

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntentURL(t *testing.T) {
	t.Run("custom scheme with package and fallback", func(t *testing.T) {
		got := IntentURL("vnd.youtube://watch?v=abc", "com.google.android.youtube", "https://youtube.com/watch?v=abc")

		assert.Equal(t,
			"intent://watch?v=abc#Intent;scheme=vnd.youtube;package=com.google.android.youtube;S.browser_fallback_url="+
				url.QueryEscape("https://youtube.com/watch?v=abc")+";end",
			got)
	})

	t.Run("no package", func(t *testing.T) {
		got := IntentURL("myapp://home", "", "")
		assert.Equal(t, "intent://home#Intent;scheme=myapp;end", got)
	})

	t.Run("http passes through", func(t *testing.T) {
		assert.Equal(t, "https://example.com/x", IntentURL("https://example.com/x", "pkg", "fb"))
	})

	t.Run("intent passes through", func(t *testing.T) {
		in := "intent://x#Intent;scheme=y;end"
		assert.Equal(t, in, IntentURL(in, "pkg", "fb"))
	})

	t.Run("schemeless input unchanged", func(t *testing.T) {
		assert.Equal(t, "no-scheme-here", IntentURL("no-scheme-here", "pkg", "fb"))
	})
}

func TestBrowserEscapeIntent(t *testing.T) {
	got := BrowserEscapeIntent("https://example.com/page?x=1")

	assert.Contains(t, got, "intent://example.com/page?x=1#Intent")
	assert.Contains(t, got, ";scheme=https")
	assert.Contains(t, got, ";package=com.android.chrome")
	assert.Contains(t, got, ";S.browser_fallback_url="+url.QueryEscape("https://example.com/page?x=1"))
	assert.Contains(t, got, ";end")
}

func TestBrowserEscapeIntent_InvalidInput(t *testing.T) {
	assert.Equal(t, "not a url", BrowserEscapeIntent("not a url"))
}
