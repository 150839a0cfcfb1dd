package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_dashboard/internal/dashboard"
	"sales_dashboard/internal/identity"
	"sales_dashboard/internal/sales"
)

// dashboardHandler holds the application state and implements HTTP handlers
// for the dashboard operations.
type dashboardHandler struct {
	app    *dashboard.App
	logger *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(app *dashboard.App, logger *zap.Logger) *dashboardHandler {
	return &dashboardHandler{
		app:    app,
		logger: logger,
	}
}

type userResponse struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Role      identity.Role `json:"role"`
	CreatedAt time.Time     `json:"createdAt"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}

type sessionResponse struct {
	User            userResponse `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

type createSaleRequest struct {
	Name     string  `json:"name" binding:"required"`
	Item     string  `json:"item" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Price    float64 `json:"price" binding:"gte=0"`
	IsPaid   bool    `json:"isPaid"`
}

type patchSaleRequest struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

// writeError maps domain errors onto HTTP statuses.
func (h *dashboardHandler) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrNoSession):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, identity.ErrDuplicateUsername):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, sales.ErrNotFound), errors.Is(err, dashboard.ErrDrilldownIndex):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, identity.ErrInvalidInput), errors.Is(err, sales.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// handleLogin handles the POST /auth/login endpoint.
func (h *dashboardHandler) handleLogin(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	u, err := h.app.Identity.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sessionResponse{User: toUserResponse(u), IsAuthenticated: true})
}

// handleRegister handles the POST /auth/register endpoint.
func (h *dashboardHandler) handleRegister(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	u, err := h.app.Identity.Register(ctx.Request.Context(), req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, sessionResponse{User: toUserResponse(u), IsAuthenticated: true})
}

func (h *dashboardHandler) handleLogout(ctx *gin.Context) {
	if err := h.app.Identity.EndSession(ctx.Request.Context()); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *dashboardHandler) handleSession(ctx *gin.Context) {
	u, err := h.app.RequireSession(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionResponse{User: toUserResponse(u), IsAuthenticated: true})
}

func (h *dashboardHandler) handleDashboard(ctx *gin.Context) {
	view, err := h.app.Dashboard(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// handleCreateSale handles the POST /sales endpoint. The sale is owned by
// the logged-in user.
func (h *dashboardHandler) handleCreateSale(ctx *gin.Context) {
	u, err := h.app.RequireSession(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	var req createSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "please fill all fields correctly"})
		return
	}

	sale, err := h.app.Ledger.RecordSale(ctx.Request.Context(), sales.SaleInput{
		Name:          req.Name,
		Item:          req.Item,
		Quantity:      req.Quantity,
		Price:         req.Price,
		IsPaid:        req.IsPaid,
		OwnerID:       u.ID,
		OwnerUsername: u.Username,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// handlePatchSale handles the PATCH /sales/:id endpoint. Regular users can
// only toggle their own sales.
func (h *dashboardHandler) handlePatchSale(ctx *gin.Context) {
	u, err := h.app.RequireSession(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	saleID := ctx.Param("id")
	var req patchSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.app.SetPaymentStatus(ctx.Request.Context(), u, saleID, *req.IsPaid)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

func (h *dashboardHandler) handleListSales(ctx *gin.Context) {
	u, err := h.app.RequireSession(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": h.app.SalesVisibleTo(u)})
}

// handleDrilldown handles GET /admin/drilldown/:kind/:index. The index
// refers to the payments or debts list of the admin dashboard.
func (h *dashboardHandler) handleDrilldown(ctx *gin.Context) {
	if _, err := h.app.RequireAdmin(ctx.Request.Context()); err != nil {
		h.writeError(ctx, err)
		return
	}

	kind := dashboard.DrilldownKind(ctx.Param("kind"))
	if kind != dashboard.DrilldownPayment && kind != dashboard.DrilldownDebt {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "kind must be payment or debt"})
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	entry, err := dashboard.Drilldown(h.app.AdminDashboard(), kind, index)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}
