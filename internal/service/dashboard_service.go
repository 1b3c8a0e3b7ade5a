package service

import (
	"time"

	"github.com/shopspring/decimal"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/stock"
	"go-bizman-ws/internal/tenant"
)

// lowStockThreshold flags products running out on the overview.
var lowStockThreshold = decimal.NewFromInt(5)

type DashboardOverview struct {
	Stock         stock.Stats      `json:"stock"`
	Movements     []stock.Movement `json:"movements"`
	OrderCounts   map[string]int64 `json:"order_counts"`
	Revenue       decimal.Decimal  `json:"revenue"`
	OrdersInRange int              `json:"orders_in_range"`
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
}

// DashboardService aggregates the overview numbers from one read of each
// source; nothing here writes.
type DashboardService interface {
	Overview(tc tenant.Context, from, to time.Time) (*DashboardOverview, error)
	RecentActivity(tc tenant.Context, limit int) ([]model.AuditLog, error)
}

type dashboardService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	logs     repository.InventoryLogRepository
	audits   repository.AuditLogRepository
}

func NewDashboardService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	logs repository.InventoryLogRepository,
	audits repository.AuditLogRepository,
) DashboardService {
	return &dashboardService{products: products, orders: orders, logs: logs, audits: audits}
}

func (s *dashboardService) Overview(tc tenant.Context, from, to time.Time) (*DashboardOverview, error) {
	products, err := s.products.FindAll(tc)
	if err != nil {
		return nil, err
	}

	invLogs, err := s.logs.FindRange(tc, from, to)
	if err != nil {
		return nil, err
	}

	counts, err := s.orders.CountByStatus(tc)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindRange(tc, from, to)
	if err != nil {
		return nil, err
	}

	// Revenue counts orders that actually went through, not drafts or
	// cancellations.
	revenue := decimal.Zero
	for _, o := range orders {
		switch o.Status {
		case model.OrderStatusConfirmed, model.OrderStatusShipping, model.OrderStatusDone:
			revenue = revenue.Add(o.TotalAmount)
		}
	}

	return &DashboardOverview{
		Stock:         stock.Snapshot(products, lowStockThreshold),
		Movements:     stock.MovementSeries(invLogs),
		OrderCounts:   counts,
		Revenue:       revenue,
		OrdersInRange: len(orders),
		From:          from,
		To:            to,
	}, nil
}

func (s *dashboardService) RecentActivity(tc tenant.Context, limit int) ([]model.AuditLog, error) {
	return s.audits.FindRecent(tc, limit)
}
