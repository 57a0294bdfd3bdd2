package server

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaysinghgautam/jay-portfolio/internal/content"
	"github.com/Jaysinghgautam/jay-portfolio/internal/identity"
	"github.com/Jaysinghgautam/jay-portfolio/internal/metrics"
	"github.com/Jaysinghgautam/jay-portfolio/internal/typing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) Config {
	t.Helper()
	site := &content.Site{
		Hero: content.Hero{
			Name:    "Jay",
			Phrases: []string{"Go"},
		},
	}
	return Config{
		Content: content.NewStore(site),
		Issuer:  identity.NewIssuer("test-secret"),
		Timings: typing.Timings{
			Type:      time.Millisecond,
			Delete:    time.Millisecond,
			HoldFull:  time.Millisecond,
			HoldEmpty: time.Millisecond,
		},
	}
}

func TestHealthz(t *testing.T) {
	r := New(testConfig(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSession_Anonymous(t *testing.T) {
	r := New(testConfig(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["uid"])

	// A second bootstrap is a different visitor.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodPost, "/session", nil))
	var resp2 map[string]string
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.NotEqual(t, resp["uid"], resp2["uid"])
}

func TestSession_CustomToken(t *testing.T) {
	cfg := testConfig(t)
	r := New(cfg)

	token := cfg.Issuer.MintToken("visitor-7")
	body := strings.NewReader(`{"token": "` + token + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/session", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "visitor-7", resp["uid"])
}

func TestSession_InvalidToken(t *testing.T) {
	r := New(testConfig(t))

	body := strings.NewReader(`{"token": "visitor-7.deadbeef"}`)
	req := httptest.NewRequest(http.MethodPost, "/session", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_MalformedBody(t *testing.T) {
	r := New(testConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHeroStream_SendsTypingFrames(t *testing.T) {
	srv := httptest.NewServer(New(testConfig(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/hero-stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var frames []typing.Frame
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() && len(frames) < 4 {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var f typing.Frame
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &f))
		frames = append(frames, f)
	}

	want := []typing.Frame{
		{Text: "G"},
		{Text: "Go"},
		{Text: "Go", Retracting: true},
		{Text: "G", Retracting: true},
	}
	assert.Equal(t, want, frames)
}

func TestHeroStream_EmptyPhrasesRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content = content.NewStore(&content.Site{})
	r := New(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hero-stream", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTrackVisitors_RecordsPageViews(t *testing.T) {
	store, err := metrics.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig(t)
	cfg.Metrics = store
	r := New(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Recording happens off the request path.
	deadline := time.After(2 * time.Second)
	for {
		stats, err := store.Stats()
		require.NoError(t, err)
		if stats.TotalVisits == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("visit was never recorded")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestTrackVisitors_HonorsDoNotTrack(t *testing.T) {
	store, err := metrics.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig(t)
	cfg.Metrics = store
	r := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	req.Header.Set("DNT", "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVisits)
}

func TestTrackVisitors_SkipsInfrastructurePaths(t *testing.T) {
	store, err := metrics.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig(t)
	cfg.Metrics = store
	r := New(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVisits)
}
