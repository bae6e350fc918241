package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/resqlink/dispatch-api/internal/model"
)

// Handler contains dependencies shared across handlers
type Handler struct {
	db *sqlx.DB
}

// NewHandler creates a new handler instance
func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

const ContextDispatcher = "dispatcher"

// DispatcherFrom pulls the authenticated dispatcher out of the gin context.
// The auth middleware guarantees it is present on protected routes.
func DispatcherFrom(c *gin.Context) *model.Dispatcher {
	if v, ok := c.Get(ContextDispatcher); ok {
		if d, ok := v.(*model.Dispatcher); ok {
			return d
		}
	}
	return nil
}
