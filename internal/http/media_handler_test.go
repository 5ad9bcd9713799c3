package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/internal/domain/mocks"
	apphttp "github.com/Notifuse/emailbuilder/internal/http"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/ratelimiter"
)

func setupMediaHandlerTest(t *testing.T, limiter ...*ratelimiter.RateLimiter) (*mocks.MockMediaService, string) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockMediaService(ctrl)

	var rl *ratelimiter.RateLimiter
	if len(limiter) > 0 {
		rl = limiter[0]
	}
	handler := apphttp.NewMediaHandler(mockService, testSecret, rl, logger.NewTestLogger(t))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return mockService, server.URL
}

func TestMediaHandler_List(t *testing.T) {
	token := createTestToken(t)

	t.Run("success", func(t *testing.T) {
		mockService, baseURL := setupMediaHandlerTest(t)
		mockService.EXPECT().ListImages(gomock.Any()).Return([]domain.MediaAsset{{
			Name:        "logo.png",
			SizeBytes:   2048,
			DateAdded:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			DownloadRef: "media/logo.png",
		}}, nil)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/media.list", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assets := decodeResponse(t, resp)["assets"].([]interface{})
		require.Len(t, assets, 1)
		assert.Equal(t, "media/logo.png", assets[0].(map[string]interface{})["download_ref"])
	})

	t.Run("empty bucket", func(t *testing.T) {
		mockService, baseURL := setupMediaHandlerTest(t)
		mockService.EXPECT().ListImages(gomock.Any()).Return(nil, nil)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/media.list", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []interface{}{}, decodeResponse(t, resp)["assets"])
	})

	t.Run("storage not configured", func(t *testing.T) {
		mockService, baseURL := setupMediaHandlerTest(t)
		mockService.EXPECT().ListImages(gomock.Any()).Return(nil, domain.ErrMediaUnavailable)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/media.list", token, nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("rate limited", func(t *testing.T) {
		mockService, baseURL := setupMediaHandlerTest(t, ratelimiter.NewRateLimiter(1, 1))
		mockService.EXPECT().ListImages(gomock.Any()).Return(nil, nil).Times(1)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/media.list", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp = sendRequest(t, http.MethodGet, baseURL+"/api/media.list", token, nil)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	})
}
