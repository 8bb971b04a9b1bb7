package repositories

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiRepository {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo, err := NewGeminiRepository(config.ImageConfig{
		BaseURL: server.URL + "/v1beta",
		APIKey:  "gem-key",
		Model:   "image-model",
	}, logger.NewNop(), nil)
	require.NoError(t, err)
	return repo
}

func TestGeminiRepository_Generate(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	repo := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/image-model:generateContent", r.URL.Path)
		assert.Equal(t, "gem-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "draw Ankara", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": "here you go"},
					map[string]any{"inlineData": map[string]any{
						"mimeType": "image/png",
						"data":     base64.StdEncoding.EncodeToString(png),
					}},
				}},
			}},
		})
	})

	got, err := repo.Generate(context.Background(), "draw Ankara")

	require.NoError(t, err)
	assert.Equal(t, png, got.Data)
	assert.Equal(t, "image/png", got.MIMEType)
}

func TestGeminiRepository_NoInlineData(t *testing.T) {
	repo := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"I cannot draw that"}]}}]}`))
	})

	_, err := repo.Generate(context.Background(), "draw")

	assert.ErrorIs(t, err, models.ErrGeneration)
}

func TestGeminiRepository_UpstreamErrorIsNotRetried(t *testing.T) {
	var calls int32
	repo := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"model overloaded","status":"UNAVAILABLE"}}`))
	})

	_, err := repo.Generate(context.Background(), "draw")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrGeneration)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiRepository_BadBase64(t *testing.T) {
	repo := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"***"}}]}}]}`))
	})

	_, err := repo.Generate(context.Background(), "draw")

	assert.ErrorIs(t, err, models.ErrGeneration)
}

func TestGeminiRepository_Name(t *testing.T) {
	assert.Equal(t, "gemini", (&GeminiRepository{}).Name())
}
