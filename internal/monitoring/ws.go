package monitoring

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced by the router middleware
	},
}

// screenFrame is one update pushed to mirror clients.
type screenFrame struct {
	Alive  bool   `json:"alive"`
	Pid    int    `json:"pid,omitempty"`
	Screen string `json:"screen"`
}

// handleScreenWS streams the rendered screen to a mirror client on the
// configured interval. The mirror is passive: it renders the current
// grid and never reads from the PTY, so it cannot steal output from
// the interact path.
func (l *Listener) handleScreenWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	l.metrics.IncWSConnections()
	defer l.metrics.DecWSConnections()

	// Mirror clients send nothing useful; reading surfaces the close
	// handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(l.cfg.ScreenInterval)
	defer ticker.Stop()

	var last screenFrame
	sent := false
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frame := screenFrame{
				Alive:  l.view.Alive(),
				Pid:    l.view.Pid(),
				Screen: l.view.ScreenText(),
			}
			if sent && frame == last {
				continue
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			last, sent = frame, true
		}
	}
}
