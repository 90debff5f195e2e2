package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"applink/internal/mocks"
	"applink/internal/model"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_RecordClick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRedis := mocks.NewMockRedisRepositoryInterface(ctrl)

	mockRedis.EXPECT().IncrementPV(gomock.Any(), "yt-demo").Return(int64(1), nil)
	mockRedis.EXPECT().AddUV(gomock.Any(), "yt-demo", gomock.Any()).Return(true, nil)
	mockRedis.EXPECT().IncrementDimension(gomock.Any(), "yt-demo", "device", "ios").Return(nil)
	mockRedis.EXPECT().IncrementDimension(gomock.Any(), "yt-demo", "browser", "safari").Return(nil)

	svc := NewAnalyticsService(mockRedis)

	err := svc.RecordClick(context.Background(), &model.Click{
		Slug:      "yt-demo",
		ClientIP:  "192.0.2.1",
		UserAgent: "Mozilla/5.0",
		Device:    "ios",
		Browser:   "safari",
		ClickedAt: time.Now(),
	})

	assert.NoError(t, err)
}

// Counter failures are logged, never surfaced: a broken Redis must not break
// the redirect path.
func TestAnalyticsService_RecordClick_DegradesOnErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRedis := mocks.NewMockRedisRepositoryInterface(ctrl)

	boom := errors.New("redis down")
	mockRedis.EXPECT().IncrementPV(gomock.Any(), "yt-demo").Return(int64(0), boom)
	mockRedis.EXPECT().AddUV(gomock.Any(), "yt-demo", gomock.Any()).Return(false, boom)
	mockRedis.EXPECT().IncrementDimension(gomock.Any(), "yt-demo", "device", "ios").Return(boom)
	mockRedis.EXPECT().IncrementDimension(gomock.Any(), "yt-demo", "browser", "safari").Return(boom)

	svc := NewAnalyticsService(mockRedis)

	err := svc.RecordClick(context.Background(), &model.Click{
		Slug:    "yt-demo",
		Device:  "ios",
		Browser: "safari",
	})

	assert.NoError(t, err)
}

func TestVisitorID(t *testing.T) {
	day := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	a := VisitorID("192.0.2.1", "Mozilla/5.0", day)
	b := VisitorID("192.0.2.1", "Mozilla/5.0", day)
	c := VisitorID("192.0.2.2", "Mozilla/5.0", day)
	nextDay := VisitorID("192.0.2.1", "Mozilla/5.0", day.AddDate(0, 0, 1))

	// Stable per (ip, ua, day); changes with any of the three.
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, nextDay)
	assert.Contains(t, a, "2026-08-28:")
}

func TestAnalyticsService_GetAnalytics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRedis := mocks.NewMockRedisRepositoryInterface(ctrl)

	mockRedis.EXPECT().GetPV(gomock.Any(), "yt-demo").Return(int64(120), nil)
	mockRedis.EXPECT().GetUV(gomock.Any(), "yt-demo").Return(int64(45), nil)
	mockRedis.EXPECT().GetDimension(gomock.Any(), "yt-demo", "device").Return(map[string]int64{"ios": 80, "android": 40}, nil)
	mockRedis.EXPECT().GetDimension(gomock.Any(), "yt-demo", "browser").Return(map[string]int64{"safari": 70}, nil)

	svc := NewAnalyticsService(mockRedis)

	resp, err := svc.GetAnalytics(context.Background(), "yt-demo")

	require.NoError(t, err)
	assert.Equal(t, "yt-demo", resp.Slug)
	assert.Equal(t, int64(120), resp.PV)
	assert.Equal(t, int64(45), resp.UV)
	assert.Equal(t, int64(80), resp.Devices["ios"])
	assert.Equal(t, int64(70), resp.Browsers["safari"])
}

func TestAnalyticsService_GetAnalytics_DegradesToZeros(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRedis := mocks.NewMockRedisRepositoryInterface(ctrl)

	boom := errors.New("redis down")
	mockRedis.EXPECT().GetPV(gomock.Any(), "yt-demo").Return(int64(0), boom)
	mockRedis.EXPECT().GetUV(gomock.Any(), "yt-demo").Return(int64(0), boom)
	mockRedis.EXPECT().GetDimension(gomock.Any(), "yt-demo", "device").Return(nil, boom)
	mockRedis.EXPECT().GetDimension(gomock.Any(), "yt-demo", "browser").Return(nil, boom)

	svc := NewAnalyticsService(mockRedis)

	resp, err := svc.GetAnalytics(context.Background(), "yt-demo")

	require.NoError(t, err)
	assert.Zero(t, resp.PV)
	assert.Zero(t, resp.UV)
	assert.NotNil(t, resp.Devices)
	assert.NotNil(t, resp.Browsers)
	assert.Empty(t, resp.Devices)
}
