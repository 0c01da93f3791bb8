package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"atelier-dashboard/internal/models"
	"atelier-dashboard/internal/service"
	"atelier-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	dashboard *service.Dashboard
}

// NewHandler creates a new HTTP handler
func NewHandler(dashboard *service.Dashboard) *Handler {
	return &Handler{dashboard: dashboard}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PUT("/orders/:id/status", h.updateStatus)
		v1.POST("/sync", h.triggerSync)
		v1.GET("/stats", h.getStats)
		v1.GET("/export", h.exportCSV)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listOrders returns the current order set, newest-first, optionally
// filtered by a search term (?q=) and a status (?status=, "all" accepted).
// The response carries the last sync time and error so a client can show a
// stale-data banner instead of an empty list.
func (h *Handler) listOrders(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	if status != "all" {
		parsed, ok := models.ParseStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("unknown status: %s", status),
			})
			return
		}
		status = string(parsed)
	}

	orders := h.dashboard.List(c.Query("q"), status)
	syncedAt, lastErr := h.dashboard.LastSync()

	c.JSON(http.StatusOK, gin.H{
		"orders":         orders,
		"count":          len(orders),
		"last_synced_at": syncedAt,
		"last_error":     lastErr,
	})
}

// getOrder returns one order with its profit breakdown.
func (h *Handler) getOrder(c *gin.Context) {
	order, ok := h.dashboard.Order(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":  order,
		"profit": service.Breakdown(order.Amount),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateStatus records a status override. The id is not checked against the
// current order set: overrides may be pre-seeded for orders not yet synced.
func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	status, ok := models.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("unknown status: %s", req.Status),
		})
		return
	}

	orderID := c.Param("id")
	if err := h.dashboard.UpdateStatus(c.Request.Context(), orderID, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"status":   status,
	})
}

// triggerSync runs a manual refresh. A sync already in flight is a conflict,
// not an error; failures surface the recorded reason while the stale order
// set stays available.
func (h *Handler) triggerSync(c *gin.Context) {
	if err := h.dashboard.Sync(c.Request.Context()); err != nil {
		if errors.Is(err, service.ErrSyncInFlight) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Sync already in progress",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Sync failed",
			"details": err.Error(),
		})
		return
	}

	syncedAt, _ := h.dashboard.LastSync()
	c.JSON(http.StatusOK, gin.H{
		"order_count": len(h.dashboard.Orders()),
		"synced_at":   syncedAt,
	})
}

// getStats returns the aggregate dashboard view.
func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Stats())
}

// exportCSV streams the current order set as a CSV attachment.
func (h *Handler) exportCSV(c *gin.Context) {
	out, err := h.dashboard.ExportCSV()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Export failed",
			"details": err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("export_atelier_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
