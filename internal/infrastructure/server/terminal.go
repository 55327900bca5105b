package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/shared/id"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  256,
	WriteBufferSize: 256,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// terminal is a websocket client attached to the serial line as a sink.
type terminal struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	onWrite func(int)
}

func (t *terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return 0, err
	}
	if err := t.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	t.onWrite(len(p))
	return len(p), nil
}

// Terminal upgrades to a websocket and joins it to the console. Every byte
// received is typed at the console; all line output is sent back.
func (s *Server) Terminal(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := id.NewConnID()
	logger := s.logger.With(zap.String("conn", connID.String()))

	t := &terminal{
		conn:    conn,
		onWrite: func(n int) { s.metrics.RecordWSBytes("out", n) },
	}
	detach := s.line.Attach(t)
	defer detach()

	s.metrics.IncWSConnections()
	defer s.metrics.DecWSConnections()
	logger.Info("Terminal attached", zap.String("remote", c.ClientIP()))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Terminal read failed", zap.Error(err))
			}
			break
		}
		s.metrics.RecordWSBytes("in", len(data))
		for _, b := range data {
			s.cons.Intr(b)
		}
	}
	logger.Info("Terminal detached")
}
