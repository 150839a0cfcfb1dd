// Package stats derives the dashboard aggregates from a list of sales.
//
// Every function is pure: it reads only its arguments, never retains them,
// and returns the same result for the same input. Aggregates that are
// rendered as ordered lists (item popularity, per-user totals) keep a stable
// order so that a position in the result can be used to look an entry up
// again.
package stats

import (
	"slices"
	"time"

	"sales_dashboard/internal/identity"
	"sales_dashboard/internal/sales"
)

// DayLayout is the bucket key format of GroupByCalendarDay.
const DayLayout = "2006-01-02"

// TopItemsLimit is how many items the admin items chart shows.
const TopItemsLimit = 10

// PaymentSummary partitions sales by their paid flag.
type PaymentSummary struct {
	TotalPaid   float64 `json:"totalPaid"`
	TotalUnpaid float64 `json:"totalUnpaid"`
	PaidCount   int     `json:"paidCount"`
	UnpaidCount int     `json:"unpaidCount"`
}

// ItemStat is the popularity of one item.
type ItemStat struct {
	Item       string  `json:"item"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// DayTotals is the paid and unpaid value of one calendar day.
type DayTotals struct {
	Paid   float64 `json:"paid"`
	Unpaid float64 `json:"unpaid"`
}

// UserTotal is the value of one user's matching sales.
type UserTotal struct {
	User     identity.User `json:"-"`
	UserID   string        `json:"userId"`
	Username string        `json:"user"`
	Total    float64       `json:"total"`
	Sales    []sales.Sale  `json:"sales"`
}

// PaymentStats sums quantity times price over the paid and the unpaid sales.
func PaymentStats(list []sales.Sale) PaymentSummary {
	var st PaymentSummary
	for _, s := range list {
		if s.IsPaid {
			st.TotalPaid += s.Total()
			st.PaidCount++
		} else {
			st.TotalUnpaid += s.Total()
			st.UnpaidCount++
		}
	}
	return st
}

// TotalRevenue is the paid plus unpaid value.
func TotalRevenue(st PaymentSummary) float64 {
	return st.TotalPaid + st.TotalUnpaid
}

// ItemPopularity groups sales by item, ordered by total quantity descending.
// Items with the same quantity stay in the order they were first seen.
func ItemPopularity(list []sales.Sale) []ItemStat {
	index := make(map[string]int)
	out := make([]ItemStat, 0)

	for _, s := range list {
		i, ok := index[s.Item]
		if !ok {
			i = len(out)
			index[s.Item] = i
			out = append(out, ItemStat{Item: s.Item})
		}
		out[i].Count += s.Quantity
		out[i].TotalValue += s.Total()
	}

	slices.SortStableFunc(out, func(a, b ItemStat) int {
		return b.Count - a.Count
	})
	return out
}

// TopItems is ItemPopularity cut to the first n entries.
func TopItems(list []sales.Sale, n int) []ItemStat {
	items := ItemPopularity(list)
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// GroupByCalendarDay buckets sale values by the calendar day of their
// timestamp in loc. A nil loc means the local zone.
func GroupByCalendarDay(list []sales.Sale, loc *time.Location) map[string]DayTotals {
	if loc == nil {
		loc = time.Local
	}

	out := make(map[string]DayTotals)
	for _, s := range list {
		day := s.Timestamp.In(loc).Format(DayLayout)
		totals := out[day]
		if s.IsPaid {
			totals.Paid += s.Total()
		} else {
			totals.Unpaid += s.Total()
		}
		out[day] = totals
	}
	return out
}

// SortedDays returns the bucket keys of days in chronological order.
func SortedDays(days map[string]DayTotals) []string {
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PerUserTotals computes, for every user with the "user" role, the value of
// their sales that satisfy match. Users keep the order of the users slice.
func PerUserTotals(list []sales.Sale, users []identity.User, match func(sales.Sale) bool) []UserTotal {
	out := make([]UserTotal, 0)
	for _, u := range users {
		if u.Role != identity.RoleUser {
			continue
		}

		ut := UserTotal{User: u, UserID: u.ID, Username: u.Username, Sales: make([]sales.Sale, 0)}
		for _, s := range list {
			if s.UserID == u.ID && match(s) {
				ut.Sales = append(ut.Sales, s)
				ut.Total += s.Total()
			}
		}
		out = append(out, ut)
	}
	return out
}

// PaymentDistribution is the paid value per user.
func PaymentDistribution(list []sales.Sale, users []identity.User) []UserTotal {
	return PerUserTotals(list, users, func(s sales.Sale) bool { return s.IsPaid })
}

// DebtDistribution is the unpaid value per user, leaving out users who owe nothing.
func DebtDistribution(list []sales.Sale, users []identity.User) []UserTotal {
	all := PerUserTotals(list, users, func(s sales.Sale) bool { return !s.IsPaid })
	return slices.DeleteFunc(all, func(ut UserTotal) bool { return ut.Total == 0 })
}
