package stock

import (
	"sort"

	"github.com/shopspring/decimal"

	"go-bizman-ws/internal/model"
)

// Stats is the dashboard overview computed from one immutable snapshot of
// the tenant's products.
type Stats struct {
	TotalProducts  int             `json:"total_products"`
	LowStockCount  int             `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

// Movement is one day of aggregated inventory-log activity.
type Movement struct {
	Date     string          `json:"date"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

// Snapshot computes overview stats. Only master products are counted for
// stock purposes; alias products would double-count the shared counter.
func Snapshot(products []model.Product, lowStockThreshold decimal.Decimal) Stats {
	s := Stats{TotalValuation: decimal.Zero}
	for _, p := range products {
		s.TotalProducts++
		if !p.IsMaster() {
			continue
		}
		if p.Stock.LessThan(lowStockThreshold) {
			s.LowStockCount++
		}
		s.TotalValuation = s.TotalValuation.Add(p.Stock.Mul(p.PriceBuy))
	}
	return s
}

// MovementSeries buckets inventory logs per day, splitting increases and
// decreases, sorted by date ascending.
func MovementSeries(logs []model.InventoryLog) []Movement {
	byDate := make(map[string]*Movement)
	for _, l := range logs {
		date := l.CreatedAt.Format("2006-01-02")
		m, ok := byDate[date]
		if !ok {
			m = &Movement{Date: date, Inbound: decimal.Zero, Outbound: decimal.Zero}
			byDate[date] = m
		}
		if l.DiffType == model.DiffIncrease {
			m.Inbound = m.Inbound.Add(l.Qty)
		} else {
			m.Outbound = m.Outbound.Add(l.Qty)
		}
	}

	series := make([]Movement, 0, len(byDate))
	for _, m := range byDate {
		series = append(series, *m)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}
