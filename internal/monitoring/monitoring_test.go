package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgate/termgate/internal/logging"
)

// Metrics register on the default Prometheus registry, so the test
// binary shares one collector.
var (
	testMetricsOnce sync.Once
	testMetrics     *Metrics
)

func metricsForTest() *Metrics {
	testMetricsOnce.Do(func() { testMetrics = NewMetrics() })
	return testMetrics
}

type fakeView struct {
	alive bool
	pid   int
	sid   string
	text  string
}

func (f *fakeView) Alive() bool        { return f.alive }
func (f *fakeView) Pid() int           { return f.pid }
func (f *fakeView) SessionID() string  { return f.sid }
func (f *fakeView) ScreenText() string { return f.text }

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func testListener(view SessionView) *Listener {
	return NewListener(ListenerConfig{
		Addr:              "127.0.0.1:0",
		ScreenInterval:    10 * time.Millisecond,
		RequestsPerSecond: 100,
		Burst:             200,
	}, logging.NewNop(), metricsForTest(), view)
}

func TestHealthEndpoint(t *testing.T) {
	view := &fakeView{alive: true, pid: 4242, sid: "sess_TEST", text: "prompt$"}
	l := testListener(view)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	l.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))

	var payload struct {
		Status   string `json:"status"`
		Service  string `json:"service"`
		Terminal struct {
			Alive     bool   `json:"alive"`
			Pid       int    `json:"pid"`
			SessionID string `json:"session_id"`
		} `json:"terminal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))

	assert.Equal(t, "healthy", payload.Status)
	assert.Equal(t, "termgate", payload.Service)
	assert.True(t, payload.Terminal.Alive)
	assert.Equal(t, 4242, payload.Terminal.Pid)
	assert.Equal(t, "sess_TEST", payload.Terminal.SessionID)
}

func TestMetricsEndpoint(t *testing.T) {
	l := testListener(&fakeView{})

	// Touch a counter so the exposition contains our namespace.
	metricsForTest().RecordExec("ok", 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	l.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "termgate_exec_total")
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := metricsForTest()
	router := setupTestRouter()
	router.Use(Middleware(m))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	before := m.GetSnapshot().TotalRequests

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, before+1, m.GetSnapshot().TotalRequests)
}

func TestMiddlewareCountsErrors(t *testing.T) {
	m := metricsForTest()
	router := setupTestRouter()
	router.Use(Middleware(m))
	router.GET("/boom", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})

	before := m.GetSnapshot().TotalErrors

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, before+1, m.GetSnapshot().TotalErrors)
}

func TestTimerRecordsToolCall(t *testing.T) {
	timer := NewTimer(metricsForTest(), "exec")
	timer.Stop("success")

	// A nil-metrics timer must be a no-op.
	NewTimer(nil, "exec").Stop("success")
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))
	router.GET("/limited", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
}

func TestCORSHeaders(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(DefaultCORSConfig()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestScreenMirrorStreamsFrames(t *testing.T) {
	view := &fakeView{alive: true, pid: 7, text: "mirror me"}
	l := testListener(view)

	srv := httptest.NewServer(l.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/screen"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Alive  bool   `json:"alive"`
		Pid    int    `json:"pid"`
		Screen string `json:"screen"`
	}
	require.NoError(t, conn.ReadJSON(&frame))

	assert.True(t, frame.Alive)
	assert.Equal(t, 7, frame.Pid)
	assert.Equal(t, "mirror me", frame.Screen)
}
