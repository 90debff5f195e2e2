package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"applink/internal/mocks"
	"applink/internal/model"
	"applink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinksRouter(h *LinksHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		v1.POST("/links", h.Create)
		v1.GET("/links", h.List)
		v1.GET("/links/:slug", h.Get)
		v1.PUT("/links/id/:id", h.Update)
		v1.DELETE("/links/id/:id", h.Delete)
		v1.POST("/links/parse", h.Parse)
	}
	return router
}

func TestLinksHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.Link{
			ID:          1,
			Slug:        "yt-demo",
			WebFallback: "https://www.youtube.com/watch?v=abc",
			Platform:    "youtube",
		}, nil)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		body, _ := json.Marshal(model.CreateLinkRequest{
			Slug:        "yt-demo",
			WebFallback: "https://www.youtube.com/watch?v=abc",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Code)
	})

	t.Run("slug taken returns 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, service.ErrSlugTaken)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		body, _ := json.Marshal(model.CreateLinkRequest{
			Slug:        "taken",
			WebFallback: "https://example.com",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid slug returns 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, service.ErrInvalidSlug)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		body, _ := json.Marshal(model.CreateLinkRequest{
			Slug:        "bad slug",
			WebFallback: "https://example.com",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router := newLinksRouter(NewLinksHandler(mocks.NewMockLinkServiceInterface(ctrl)))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing web_fallback rejected by binding", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router := newLinksRouter(NewLinksHandler(mocks.NewMockLinkServiceInterface(ctrl)))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links", bytes.NewBufferString(`{"slug":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLinksHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
	mockSvc.EXPECT().List(gomock.Any()).Return([]model.LinkResponse{
		{Link: model.Link{ID: 1, Slug: "yt-demo"}, ClickCount: 7},
	}, nil)

	router := newLinksRouter(NewLinksHandler(mockSvc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/links", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"click_count":7`)
}

func TestLinksHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Resolve(gomock.Any(), "yt-demo").Return(&model.Link{Slug: "yt-demo"}, nil)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/links/yt-demo", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Resolve(gomock.Any(), "missing").Return(nil, service.ErrLinkNotFound)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/links/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLinksHandler_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(&model.Link{ID: 1, Slug: "renamed"}, nil)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/links/id/1", bytes.NewBufferString(`{"slug":"renamed"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router := newLinksRouter(NewLinksHandler(mocks.NewMockLinkServiceInterface(ctrl)))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/links/id/abc", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Update(gomock.Any(), int64(99), gomock.Any()).Return(nil, service.ErrLinkNotFound)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/links/id/99", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLinksHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/links/id/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := mocks.NewMockLinkServiceInterface(ctrl)
		mockSvc.EXPECT().Delete(gomock.Any(), int64(99)).Return(service.ErrLinkNotFound)

		router := newLinksRouter(NewLinksHandler(mockSvc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/links/id/99", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLinksHandler_Parse(t *testing.T) {
	t.Run("youtube url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router := newLinksRouter(NewLinksHandler(mocks.NewMockLinkServiceInterface(ctrl)))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links/parse",
			bytes.NewBufferString(`{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "youtube://watch?v=dQw4w9WgXcQ")
		assert.Contains(t, w.Body.String(), "vnd.youtube://watch?v=dQw4w9WgXcQ")
	})

	t.Run("recognized platform without identifier", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router := newLinksRouter(NewLinksHandler(mocks.NewMockLinkServiceInterface(ctrl)))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links/parse",
			bytes.NewBufferString(`{"url":"https://www.instagram.com/someuser/"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		// Not a client error: the web-only record shape is returned.
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "no deep link available")
		assert.Contains(t, w.Body.String(), `"platform":"instagram"`)
	})

	t.Run("unparseable url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router := newLinksRouter(NewLinksHandler(mocks.NewMockLinkServiceInterface(ctrl)))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/links/parse",
			bytes.NewBufferString(`{"url":"ftp://example.com/file"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
