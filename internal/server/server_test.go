package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"copyforge/internal/content"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubGenerator returns a canned result, tracking concurrency.
type stubGenerator struct {
	mu      sync.Mutex
	res     content.GenerationResult
	err     error
	delay   time.Duration
	active  int
	maxSeen int
}

func (s *stubGenerator) Generate(ctx context.Context, req content.GenerationRequest) (content.GenerationResult, error) {
	s.mu.Lock()
	s.active++
	if s.active > s.maxSeen {
		s.maxSeen = s.active
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return s.res, s.err
}

func successResult() content.GenerationResult {
	return content.GenerationResult{
		Success:      true,
		Titles:       []string{"A generated title"},
		Descriptions: []string{"A generated description"},
		Bullets:      []string{"A generated bullet"},
	}
}

func newTestRouter(t *testing.T, gen Generator, dashboard string) *gin.Engine {
	t.Helper()
	h := NewHandler(gen, Options{DashboardPath: dashboard, AllowOrigins: []string{"*"}}, zap.NewNop())
	return h.Router()
}

func postGenerate(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validBody = `{"title_prompt":"punchy","desc_prompt":"warm","bullet_prompt":"scannable"}`

func TestGenerateSuccess(t *testing.T) {
	gen := &stubGenerator{res: successResult()}
	router := newTestRouter(t, gen, "")

	w := postGenerate(t, router, validBody)

	require.Equal(t, http.StatusOK, w.Code)
	var res content.GenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, []string{"A generated title"}, res.Titles)
}

func TestGenerateFailureMapsTo500(t *testing.T) {
	gen := &stubGenerator{res: content.GenerationResult{
		Success:      false,
		Titles:       []string{"Generated Title 1"},
		Descriptions: []string{"Generated Description 1"},
		Bullets:      []string{"Generated Bullet Point 1"},
		Error:        "no sections parsed from reply",
	}}
	router := newTestRouter(t, gen, "")

	w := postGenerate(t, router, validBody)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var res content.GenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.NotEmpty(t, res.Titles, "failure responses still carry padded lists")
}

func TestGenerateRejectsMissingPrompts(t *testing.T) {
	gen := &stubGenerator{res: successResult()}
	router := newTestRouter(t, gen, "")

	w := postGenerate(t, router, `{"title_prompt":"only one"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var res content.GenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Error, "invalid request")
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{res: successResult()}, "")

	w := postGenerate(t, router, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateSerialized(t *testing.T) {
	gen := &stubGenerator{res: successResult(), delay: 50 * time.Millisecond}
	router := newTestRouter(t, gen, "")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := postGenerate(t, router, validBody)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, gen.maxSeen, "at most one generation at a time")
}

func TestDashboardServedWhenPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body>copyforge</body></html>"), 0o644))
	router := newTestRouter(t, &stubGenerator{}, path)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "copyforge")
}

func TestDashboardMissingReturnsJSON404(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, filepath.Join(t.TempDir(), "absent.html"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Dashboard not found"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
