// Package api exposes the dashboard over HTTP.
//
// There is a single session record per store: whoever logged in last is the
// acting user for every request. Serve it to one operator at a time.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sales_dashboard/internal/dashboard"
)

// InitRoutes registers the auth, sales and dashboard endpoints on the given
// Gin engine. Every handler works against app.
func InitRoutes(e *gin.Engine, app *dashboard.App, logger *zap.Logger) {
	h := NewDashboardHandler(app, logger)

	auth := e.Group("/auth")
	{
		auth.POST("/login", h.handleLogin)
		auth.POST("/register", h.handleRegister)
		auth.POST("/logout", h.handleLogout)
	}
	e.GET("/session", h.handleSession)
	e.GET("/dashboard", h.handleDashboard)

	e.POST("/sales", h.handleCreateSale)
	e.PATCH("/sales/:id", h.handlePatchSale)
	e.GET("/sales", h.handleListSales)

	e.GET("/admin/drilldown/:kind/:index", h.handleDrilldown)

	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
