package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/termgate/termgate/internal/logging"
)

// SessionView is the read-only view of terminal state the listener
// reports. Implementations must be safe for concurrent use.
type SessionView interface {
	Alive() bool
	Pid() int
	SessionID() string
	ScreenText() string
}

// ListenerConfig holds the observer listener settings.
type ListenerConfig struct {
	Addr              string
	ScreenInterval    time.Duration
	RequestsPerSecond int
	Burst             int
}

// Listener is the optional HTTP observer. It exposes health, metrics
// and a read-only screen mirror; it never accepts terminal input, and
// it runs beside the MCP stdio transport without touching it.
type Listener struct {
	cfg     ListenerConfig
	log     *logging.Logger
	metrics *Metrics
	view    SessionView
	httpSrv *http.Server
}

// NewListener assembles the observer router.
func NewListener(cfg ListenerConfig, log *logging.Logger, metrics *Metrics, view SessionView) *Listener {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(Middleware(metrics))
	router.Use(CORS(DefaultCORSConfig()))
	router.Use(RateLimit(RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}))

	l := &Listener{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		view:    view,
	}

	router.GET("/health", l.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/screen", l.handleScreenWS)

	l.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return l
}

// Run serves until Shutdown is called. A clean shutdown returns
// http.ErrServerClosed.
func (l *Listener) Run() error {
	l.log.Info("Starting observer listener", zap.String("addr", l.cfg.Addr))
	return l.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (l *Listener) Shutdown(ctx context.Context) error {
	return l.httpSrv.Shutdown(ctx)
}

// Handler exposes the assembled router for tests and embedding.
func (l *Listener) Handler() http.Handler {
	return l.httpSrv.Handler
}

type terminalHealth struct {
	Alive     bool   `json:"alive"`
	Pid       int    `json:"pid,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type healthPayload struct {
	Status   string          `json:"status"`
	Service  string          `json:"service"`
	Uptime   float64         `json:"uptime_seconds"`
	Terminal terminalHealth  `json:"terminal"`
	Totals   MetricsSnapshot `json:"totals"`
}

func (l *Listener) handleHealth(c *gin.Context) {
	payload := healthPayload{
		Status:  "healthy",
		Service: "termgate",
		Uptime:  l.metrics.UptimeSeconds(),
		Terminal: terminalHealth{
			Alive:     l.view.Alive(),
			Pid:       l.view.Pid(),
			SessionID: l.view.SessionID(),
		},
		Totals: l.metrics.GetSnapshot(),
	}

	data, err := sonic.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode health payload"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
