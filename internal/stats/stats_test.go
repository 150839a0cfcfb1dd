package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_dashboard/internal/identity"
	"sales_dashboard/internal/sales"
)

var day = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func sale(id, owner, item string, qty int, price float64, paid bool, ts time.Time) sales.Sale {
	return sales.Sale{
		ID:        id,
		Name:      "n-" + id,
		Item:      item,
		Quantity:  qty,
		Price:     price,
		IsPaid:    paid,
		UserID:    owner,
		Username:  owner,
		Timestamp: ts,
	}
}

func sampleSales() []sales.Sale {
	return []sales.Sale{
		sale("s1", "u1", "Pen", 3, 10, false, day),
		sale("s2", "u1", "Book", 1, 25.5, true, day.Add(time.Hour)),
		sale("s3", "u2", "Pen", 2, 12, true, day.Add(24*time.Hour)),
		sale("s4", "u2", "Ink", 5, 1.25, false, day.Add(48*time.Hour)),
		sale("s5", "u3", "Book", 4, 20, false, day.Add(48*time.Hour)),
	}
}

func sampleUsers() []identity.User {
	return []identity.User{
		{ID: "a1", Username: "admin", Role: identity.RoleAdmin},
		{ID: "u1", Username: "alice", Role: identity.RoleUser},
		{ID: "u2", Username: "bob", Role: identity.RoleUser},
		{ID: "u3", Username: "carol", Role: identity.RoleUser},
		{ID: "u4", Username: "dave", Role: identity.RoleUser},
	}
}

func TestPaymentStats(t *testing.T) {
	st := PaymentStats(sampleSales())

	assert.Equal(t, 25.5+24, st.TotalPaid)
	assert.Equal(t, 30+6.25+80, st.TotalUnpaid)
	assert.Equal(t, 2, st.PaidCount)
	assert.Equal(t, 3, st.UnpaidCount)
	assert.Equal(t, st.TotalPaid+st.TotalUnpaid, TotalRevenue(st))
}

func TestPaymentStats_TotalsCoverEverySale(t *testing.T) {
	list := sampleSales()
	var sum float64
	for _, s := range list {
		sum += s.Total()
	}

	st := PaymentStats(list)
	assert.InDelta(t, sum, st.TotalPaid+st.TotalUnpaid, 1e-9)
	assert.Equal(t, len(list), st.PaidCount+st.UnpaidCount)
}

func TestPaymentStats_Empty(t *testing.T) {
	assert.Equal(t, PaymentSummary{}, PaymentStats(nil))
}

func TestPaymentStats_SingleUnpaidSale(t *testing.T) {
	st := PaymentStats([]sales.Sale{sale("s1", "u1", "stationery", 3, 10.0, false, day)})
	assert.Equal(t, PaymentSummary{TotalPaid: 0, TotalUnpaid: 30.0, PaidCount: 0, UnpaidCount: 1}, st)
}

func TestItemPopularity(t *testing.T) {
	items := ItemPopularity(sampleSales())

	require.Len(t, items, 3)
	assert.Equal(t, ItemStat{Item: "Pen", Count: 5, TotalValue: 54}, items[0])
	assert.Equal(t, ItemStat{Item: "Book", Count: 5, TotalValue: 105.5}, items[1])
	assert.Equal(t, ItemStat{Item: "Ink", Count: 5, TotalValue: 6.25}, items[2])
}

func TestItemPopularity_MergesSameItem(t *testing.T) {
	items := ItemPopularity([]sales.Sale{
		sale("s1", "u1", "Pen", 3, 1.5, false, day),
		sale("s2", "u1", "Pen", 2, 2, true, day),
	})

	require.Len(t, items, 1)
	assert.Equal(t, ItemStat{Item: "Pen", Count: 5, TotalValue: 3*1.5 + 2*2}, items[0])
}

func TestItemPopularity_OrderAndCountConservation(t *testing.T) {
	list := []sales.Sale{
		sale("s1", "u1", "a", 1, 1, false, day),
		sale("s2", "u1", "b", 7, 1, false, day),
		sale("s3", "u1", "c", 3, 1, false, day),
		sale("s4", "u1", "d", 3, 1, false, day),
		sale("s5", "u1", "a", 1, 1, false, day),
	}

	items := ItemPopularity(list)
	var total, inputTotal int
	for i, it := range items {
		total += it.Count
		if i > 0 {
			assert.GreaterOrEqual(t, items[i-1].Count, it.Count)
		}
	}
	for _, s := range list {
		inputTotal += s.Quantity
	}
	assert.Equal(t, inputTotal, total)
	assert.Equal(t, []string{"b", "c", "d", "a"}, []string{items[0].Item, items[1].Item, items[2].Item, items[3].Item},
		"ties keep encounter order")
}

func TestAggregates_Idempotent(t *testing.T) {
	list := sampleSales()
	assert.Equal(t, ItemPopularity(list), ItemPopularity(list))
	assert.Equal(t, PaymentStats(list), PaymentStats(list))
	assert.Equal(t, GroupByCalendarDay(list, time.UTC), GroupByCalendarDay(list, time.UTC))
	assert.Equal(t, PerUserTotals(list, sampleUsers(), func(sales.Sale) bool { return true }),
		PerUserTotals(list, sampleUsers(), func(sales.Sale) bool { return true }))
}

func TestTopItems(t *testing.T) {
	var list []sales.Sale
	for i := 0; i < 15; i++ {
		list = append(list, sale("s", "u1", string(rune('a'+i)), i+1, 1, false, day))
	}

	top := TopItems(list, TopItemsLimit)
	require.Len(t, top, 10)
	assert.Equal(t, "o", top[0].Item)
	assert.Len(t, TopItems(list[:2], TopItemsLimit), 2)
}

func TestGroupByCalendarDay(t *testing.T) {
	days := GroupByCalendarDay(sampleSales(), time.UTC)

	require.Len(t, days, 3)
	assert.Equal(t, DayTotals{Paid: 25.5, Unpaid: 30}, days["2026-05-04"])
	assert.Equal(t, DayTotals{Paid: 24}, days["2026-05-05"])
	assert.Equal(t, DayTotals{Unpaid: 86.25}, days["2026-05-06"])
	assert.Equal(t, []string{"2026-05-04", "2026-05-05", "2026-05-06"}, SortedDays(days))
}

func TestGroupByCalendarDay_UsesGivenZone(t *testing.T) {
	late := time.Date(2026, 5, 4, 23, 30, 0, 0, time.UTC)
	list := []sales.Sale{sale("s1", "u1", "Pen", 1, 10, true, late)}

	zone := time.FixedZone("UTC+3", 3*60*60)
	days := GroupByCalendarDay(list, zone)
	assert.Contains(t, days, "2026-05-05")
	assert.NotContains(t, days, "2026-05-04")
}

func TestPerUserTotals(t *testing.T) {
	users := sampleUsers()
	paid := PaymentDistribution(sampleSales(), users)

	require.Len(t, paid, 4, "only role user, admins skipped")
	assert.Equal(t, "alice", paid[0].Username)
	assert.Equal(t, 25.5, paid[0].Total)
	require.Len(t, paid[0].Sales, 1)
	assert.Equal(t, "s2", paid[0].Sales[0].ID)
	assert.Equal(t, 24.0, paid[1].Total)
	assert.Zero(t, paid[2].Total)
	assert.Zero(t, paid[3].Total)
	assert.Empty(t, paid[3].Sales)
}

func TestDebtDistribution_DropsZeroTotals(t *testing.T) {
	debt := DebtDistribution(sampleSales(), sampleUsers())

	require.Len(t, debt, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{debt[0].Username, debt[1].Username, debt[2].Username})
	assert.Equal(t, 30.0, debt[0].Total)
	assert.Equal(t, 6.25, debt[1].Total)
	assert.Equal(t, 80.0, debt[2].Total)
}
