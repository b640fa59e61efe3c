//go:build e2e

package e2e

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"hotel-broker/internal/handler"
	"hotel-broker/internal/handler/api"
	"hotel-broker/internal/infra"
	"hotel-broker/internal/infra/upstream"
	"hotel-broker/internal/pkg/clock"
	"hotel-broker/internal/pkg/config"
	"hotel-broker/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ------------------------------------------------------------
// 各テストプロセス用にセットアップ
// ------------------------------------------------------------
// setupE2EEnvironment builds the whole app in-process, pointed at a
// scriptable fake of the upstream inventory API. Delays in the test
// config are millisecond scale, so the real clock is fine here.
func setupE2EEnvironment(t *testing.T) (*gin.Engine, *FakeUpstream, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := NewFakeUpstream()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.NewTestConfig()
	cfg.Upstream.BaseURL = srv.URL

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewRealClock()
	exec := infra.NewExecutor(clk, logger)
	steps := upstream.NewClient(cfg.Upstream, cfg.Booking, srv.Client(), exec, logger)
	bookingCommands := commands.NewBookingCommands(steps, clk, cfg.Booking, logger)

	engine := gin.New()
	handler.NewRouter(engine, cfg, api.NewBookingHandler(bookingCommands))
	return engine, fake, cfg
}

// ------------------------------------------------------------
// 予約APIのフェイク実装
// ------------------------------------------------------------
// FakeUpstream emulates the upstream booking API. Handlers are swapped
// per test; unscripted paths fail the request loudly.
type FakeUpstream struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
}

func NewFakeUpstream() *FakeUpstream {
	f := &FakeUpstream{}
	f.Reset()
	return f
}

func (f *FakeUpstream) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = map[string]http.HandlerFunc{}
	f.calls = map[string]int{}
}

func (f *FakeUpstream) On(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *FakeUpstream) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *FakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	h, ok := f.handlers[r.URL.Path]
	f.calls[r.URL.Path]++
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotImplemented)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "error",
			"error":  "unscripted path " + r.URL.Path,
		})
		return
	}
	h(w, r)
}

// WriteData wraps data in the upstream success envelope.
func WriteData(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":   json.RawMessage(raw),
		"status": "ok",
	})
}

// WriteError wraps slug in the upstream error envelope.
func WriteError(w http.ResponseWriter, status int, slug string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  slug,
	})
}

// ------------------------------------------------------------
// E2Eテストスイートで共通のセットアップ
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router   *gin.Engine
	Upstream *FakeUpstream
	Config   config.Config
}

func (s *SharedSuite) SetupSharedSuite(t *testing.T) {
	router, fake, cfg := setupE2EEnvironment(t)
	s.Router = router
	s.Upstream = fake
	s.Config = cfg
	require.NotNil(t, s.Router, "Routerのセットアップに失敗")
	require.NotNil(t, s.Upstream, "フェイクアップストリームのセットアップに失敗")
}

func (s *SharedSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
}

func (s *SharedSuite) SetupTest() {
	s.Upstream.Reset()
}

func (s *SharedSuite) SetupSubTest() {
	s.Upstream.Reset()
}
