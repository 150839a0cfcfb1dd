package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sales_dashboard/internal/identity"
	"sales_dashboard/internal/kvstore"
	"sales_dashboard/internal/sales"
	"sales_dashboard/internal/stats"
)

// ErrNoSession is returned when a view needs a logged-in user and there is none.
var ErrNoSession = errors.New("not logged in")

// ErrForbidden is returned when the session user lacks the admin role.
var ErrForbidden = errors.New("admin role required")

// ErrDrilldownIndex is returned when a drilldown index is outside the list it points into.
var ErrDrilldownIndex = errors.New("drilldown index out of range")

// DrilldownKind selects which per-user distribution a drilldown reads.
type DrilldownKind string

const (
	DrilldownPayment DrilldownKind = "payment"
	DrilldownDebt    DrilldownKind = "debt"
)

// App is the application state: the identity store, the sales ledger and
// the zone used for daily series. It replaces a process-wide singleton and is
// passed explicitly to every transport.
type App struct {
	Identity *identity.Store
	Ledger   *sales.Ledger
	Location *time.Location
	logger   *zap.Logger
}

// DayPoint is one point of a daily paid/unpaid series.
type DayPoint struct {
	Day string `json:"day"`
	stats.DayTotals
}

// UserView is what a regular user sees.
type UserView struct {
	Username string               `json:"username"`
	Stats    stats.PaymentSummary `json:"stats"`
	Sales    []sales.Sale         `json:"sales"`
	Daily    []DayPoint           `json:"daily"`
}

// AdminView is what an admin sees. Drilldown indexes point into Payments
// and Debts as they are ordered here.
type AdminView struct {
	Stats        stats.PaymentSummary `json:"stats"`
	TotalRevenue float64              `json:"totalRevenue"`
	TotalSales   int                  `json:"totalSales"`
	Sales        []sales.Sale         `json:"sales"`
	Payments     []stats.UserTotal    `json:"payments"`
	Debts        []stats.UserTotal    `json:"debts"`
	TopItems     []stats.ItemStat     `json:"topItems"`
}

// View is the role-gated result of Dashboard: exactly one of Admin or User is set.
type View struct {
	Role  identity.Role `json:"role"`
	Admin *AdminView    `json:"admin,omitempty"`
	User  *UserView     `json:"user,omitempty"`
}

// Open builds the identity store and ledger over kv and loads both
// collections, seeding default accounts on first run.
func Open(ctx context.Context, kv kvstore.Store, loc *time.Location, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if loc == nil {
		loc = time.Local
	}

	ids := identity.NewStore(kv, logger.Named("identity"))
	if _, err := ids.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize users: %w", err)
	}

	ledger, err := sales.NewLedger(ctx, sales.NewSnapshotStorage(kv), logger.Named("sales"))
	if err != nil {
		return nil, err
	}

	return &App{
		Identity: ids,
		Ledger:   ledger,
		Location: loc,
		logger:   logger,
	}, nil
}

// UserDashboard builds the view of one user's own sales.
func (a *App) UserDashboard(u identity.User) UserView {
	own := a.Ledger.SalesForOwner(u.ID)
	days := stats.GroupByCalendarDay(own, a.Location)

	daily := make([]DayPoint, 0, len(days))
	for _, d := range stats.SortedDays(days) {
		daily = append(daily, DayPoint{Day: d, DayTotals: days[d]})
	}

	return UserView{
		Username: u.Username,
		Stats:    stats.PaymentStats(own),
		Sales:    sales.SortNewestFirst(own),
		Daily:    daily,
	}
}

// AdminDashboard builds the aggregate view over every sale.
func (a *App) AdminDashboard() AdminView {
	all := a.Ledger.All()
	users := a.Identity.Users()
	st := stats.PaymentStats(all)

	return AdminView{
		Stats:        st,
		TotalRevenue: stats.TotalRevenue(st),
		TotalSales:   len(all),
		Sales:        sales.SortNewestFirst(all),
		Payments:     stats.PaymentDistribution(all, users),
		Debts:        stats.DebtDistribution(all, users),
		TopItems:     stats.TopItems(all, stats.TopItemsLimit),
	}
}

// Dashboard returns the view matching the role of the logged-in user.
func (a *App) Dashboard(ctx context.Context) (View, error) {
	session, err := a.Identity.CurrentSession(ctx)
	if err != nil {
		return View{}, err
	}
	if session == nil {
		return View{}, ErrNoSession
	}

	u := session.User
	if u.Role == identity.RoleAdmin {
		v := a.AdminDashboard()
		return View{Role: u.Role, Admin: &v}, nil
	}
	v := a.UserDashboard(u)
	return View{Role: u.Role, User: &v}, nil
}

// Drilldown returns the entry at index of the payment or debt distribution
// in view. The index is only meaningful against the view it came from.
func Drilldown(view AdminView, kind DrilldownKind, index int) (stats.UserTotal, error) {
	var list []stats.UserTotal
	switch kind {
	case DrilldownPayment:
		list = view.Payments
	case DrilldownDebt:
		list = view.Debts
	default:
		return stats.UserTotal{}, fmt.Errorf("unknown drilldown kind %q", kind)
	}

	if index < 0 || index >= len(list) {
		return stats.UserTotal{}, ErrDrilldownIndex
	}
	return list[index], nil
}

// RequireSession returns the logged-in user, or ErrNoSession.
func (a *App) RequireSession(ctx context.Context) (identity.User, error) {
	session, err := a.Identity.CurrentSession(ctx)
	if err != nil {
		return identity.User{}, err
	}
	if session == nil {
		return identity.User{}, ErrNoSession
	}
	return session.User, nil
}

// RequireAdmin returns the logged-in user if they are an admin.
func (a *App) RequireAdmin(ctx context.Context) (identity.User, error) {
	u, err := a.RequireSession(ctx)
	if err != nil {
		return identity.User{}, err
	}
	if u.Role != identity.RoleAdmin {
		a.logger.Warn("admin view denied", zap.String("user_id", u.ID))
		return identity.User{}, ErrForbidden
	}
	return u, nil
}

// SetPaymentStatus changes the paid flag of saleID on behalf of u. A regular
// user touching a sale they do not own gets sales.ErrNotFound, the same as
// for a sale that does not exist.
func (a *App) SetPaymentStatus(ctx context.Context, u identity.User, saleID string, isPaid bool) (sales.Sale, error) {
	sale, err := a.Ledger.Get(saleID)
	if err != nil {
		return sales.Sale{}, err
	}
	if u.Role != identity.RoleAdmin && sale.UserID != u.ID {
		a.logger.Warn("payment update on foreign sale denied",
			zap.String("user_id", u.ID),
			zap.String("sale_id", saleID),
		)
		return sales.Sale{}, sales.ErrNotFound
	}

	if err := a.Ledger.SetPaymentStatus(ctx, saleID, isPaid); err != nil {
		return sales.Sale{}, err
	}
	return a.Ledger.Get(saleID)
}

// SalesVisibleTo is every sale for an admin and the user's own sales otherwise.
func (a *App) SalesVisibleTo(u identity.User) []sales.Sale {
	if u.Role == identity.RoleAdmin {
		return sales.SortNewestFirst(a.Ledger.All())
	}
	return sales.SortNewestFirst(a.Ledger.SalesForOwner(u.ID))
}
