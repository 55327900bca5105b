package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/proc"
)

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "consoled",
		"procs":   len(s.procs.List()),
	})
}

// ListProcs lists the process table.
func (s *Server) ListProcs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"procs":   s.procs.List(),
	})
}

// KillProc kills the process named by the :pid parameter.
func (s *Server) KillProc(c *gin.Context) {
	pid, err := strconv.Atoi(c.Param("pid"))
	if err != nil || pid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid pid: " + c.Param("pid"),
		})
		return
	}

	if err := s.procs.Kill(pid); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, proc.ErrNoProcess) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	s.logger.Info("Killed process over HTTP",
		zap.Int("pid", pid),
		zap.String("request_id", c.GetString("request_id")),
	)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pid":     pid,
	})
}

// ConsoleState reports the console's history and buffered input.
func (s *Server) ConsoleState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": s.cons.History(),
		"pending": s.cons.Pending(),
		"editing": s.cons.Editing(),
	})
}
