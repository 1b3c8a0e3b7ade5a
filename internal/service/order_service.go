package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/stock"
	"go-bizman-ws/internal/tenant"
	"go-bizman-ws/internal/ws"
	"go-bizman-ws/pkg/logger"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyOrder      = errors.New("order must have at least one item")
	ErrUnknownStatus   = errors.New("unknown order status")
)

type OrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Qty       decimal.Decimal  `json:"qty" validate:"required"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

type OrderRequest struct {
	Code            string             `json:"code"`
	Status          string             `json:"status" validate:"required"`
	CustomerID      *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	AdjustmentValue decimal.Decimal    `json:"adjustment_value"`
	CouponCode      string             `json:"coupon_code"`
	ReferralCode    string             `json:"referral_code"`
	Note            string             `json:"note"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderService owns the stock reconciliation rule: whatever an order did to
// the stock counters before an edit is fully reverted, then the edited order
// is applied from scratch, all inside one database transaction. Applying the
// same edit once or re-reading after a crash never double-counts.
type OrderService interface {
	Create(tc tenant.Context, req *OrderRequest) (*model.Order, error)
	Update(tc tenant.Context, id uuid.UUID, req *OrderRequest) (*model.Order, error)
	UpdateStatus(tc tenant.Context, id uuid.UUID, status string) (*model.Order, error)
	Delete(tc tenant.Context, id uuid.UUID) error
	GetAll(tc tenant.Context) ([]model.Order, error)
	GetByID(tc tenant.Context, id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	db         *gorm.DB
	orders     repository.OrderRepository
	products   repository.ProductRepository
	logs       repository.InventoryLogRepository
	coupons    repository.CouponRepository
	affiliates repository.AffiliateRepository
	audits     repository.AuditLogRepository
	hub        *ws.Hub
}

func NewOrderService(
	db *gorm.DB,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
	coupons repository.CouponRepository,
	affiliates repository.AffiliateRepository,
	audits repository.AuditLogRepository,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		db:         db,
		orders:     orders,
		products:   products,
		logs:       logs,
		coupons:    coupons,
		affiliates: affiliates,
		audits:     audits,
		hub:        hub,
	}
}

func validStatus(s string) bool {
	switch s {
	case model.OrderStatusDraft, model.OrderStatusConfirmed, model.OrderStatusShipping,
		model.OrderStatusDone, model.OrderStatusCancelled:
		return true
	}
	return false
}

// buildItems snapshots the catalog into order line items. Price defaults to
// the product's current sell price when the request leaves it out.
func buildItems(reqItems []OrderItemRequest, products []model.Product) ([]model.OrderItem, error) {
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.OrderItem, 0, len(reqItems))
	for _, ri := range reqItems {
		p, ok := byID[ri.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, ri.ProductID)
		}
		price := p.PriceSell
		if ri.Price != nil {
			price = *ri.Price
		}
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       ri.Qty,
			Price:     price,
			BuyPrice:  p.PriceBuy,
			Unit:      p.Unit,
			Category:  p.Category,
		})
	}
	return items, nil
}

// applyDeltas pushes a plan into the database: each counter adjustment is a
// server-side increment, and each plan log entry is appended.
func (s *orderService) applyDeltas(tx *gorm.DB, tc tenant.Context, deltas []stock.Delta) error {
	for _, d := range deltas {
		if !d.Qty.IsZero() {
			if err := s.products.AdjustStock(tx, tc, d.ProductID, d.Qty); err != nil {
				return err
			}
		}
		if d.Log != nil {
			if err := s.logs.Create(tx, tc, d.Log); err != nil {
				return err
			}
		}
	}
	return nil
}

// revertOrder undoes every active log entry the order holds and marks the
// entries reverted. After it returns the stock counters look as if the order
// never existed.
func (s *orderService) revertOrder(tx *gorm.DB, tc tenant.Context, orderID uuid.UUID) error {
	logs, err := s.logs.FindByOrderID(tx, tc, orderID)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		return nil
	}
	if err := s.applyDeltas(tx, tc, stock.PlanReversal(logs)); err != nil {
		return err
	}
	return s.logs.RevertByOrderID(tx, tc, orderID, tc.Actor())
}

// applyPricing resolves the coupon and referral code against the current
// subtotal. Coupon failures abort the order rather than silently dropping
// the discount.
func (s *orderService) applyPricing(tx *gorm.DB, tc tenant.Context, order *model.Order, couponCode, referralCode string) (*model.Coupon, *model.Affiliate, error) {
	order.ComputeTotals()

	couponCode = strings.ToUpper(strings.TrimSpace(couponCode))
	referralCode = strings.ToUpper(strings.TrimSpace(referralCode))

	var coupon *model.Coupon
	if couponCode != "" {
		c, err := s.coupons.FindByCode(tx, tc, couponCode)
		if err != nil {
			return nil, nil, err
		}
		if err := c.Validate(time.Now()); err != nil {
			return nil, nil, err
		}
		order.CouponCode = c.Code
		order.DiscountValue = c.Discount(order.SubTotal)
		coupon = c
	} else {
		order.CouponCode = ""
		order.DiscountValue = decimal.Zero
	}

	var affiliate *model.Affiliate
	if referralCode != "" {
		a, err := s.affiliates.FindByReferralCode(tx, tc, referralCode)
		if err != nil {
			return nil, nil, err
		}
		order.AffiliateID = &a.ID
		affiliate = a
	}

	order.ComputeTotals()
	return coupon, affiliate, nil
}

func (s *orderService) Create(tc tenant.Context, req *OrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if !validStatus(req.Status) {
		return nil, ErrUnknownStatus
	}

	order := &model.Order{
		Code:            req.Code,
		Status:          req.Status,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		AdjustmentValue: req.AdjustmentValue,
		Note:            req.Note,
	}
	if order.Code == "" {
		order.Code = "DH" + time.Now().Format("060102150405")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		products, err := s.products.FindAllTx(tx, tc)
		if err != nil {
			return err
		}
		items, err := buildItems(req.Items, products)
		if err != nil {
			return err
		}
		order.Items = items

		coupon, affiliate, err := s.applyPricing(tx, tc, order, req.CouponCode, req.ReferralCode)
		if err != nil {
			return err
		}
		redeem := order.RedeemPromo()

		if err := s.orders.Create(tx, tc, order); err != nil {
			return err
		}

		if err := s.applyDeltas(tx, tc,
			stock.PlanOrderDeltas(order.ID, order.Items, order.Status, products)); err != nil {
			return err
		}

		if redeem {
			if coupon != nil {
				if err := s.coupons.IncrementUsage(tx, tc, coupon.ID); err != nil {
					return err
				}
			}
			if affiliate != nil {
				if err := s.affiliates.AddCommission(tx, tc, affiliate.ID,
					affiliate.Commission(order.TotalAmount)); err != nil {
					return err
				}
			}
		}

		return s.audits.Create(tx, tc, "order.create", map[string]interface{}{
			"order_id": order.ID,
			"code":     order.Code,
			"status":   order.Status,
			"total":    order.TotalAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.WithModule("order").WithField("code", order.Code).Info("order created")
	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":     "order_created",
		"order_id": order.ID,
		"status":   order.Status,
	})
	return order, nil
}

func (s *orderService) Update(tc tenant.Context, id uuid.UUID, req *OrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if !validStatus(req.Status) {
		return nil, ErrUnknownStatus
	}

	var order *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.orders.FindByIDForUpdate(tx, tc, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		order = existing

		// Roll the old version of the order out of the counters first, so
		// the new version is applied against a clean slate.
		if err := s.revertOrder(tx, tc, order.ID); err != nil {
			return err
		}

		products, err := s.products.FindAllTx(tx, tc)
		if err != nil {
			return err
		}
		items, err := buildItems(req.Items, products)
		if err != nil {
			return err
		}
		if err := s.orders.ReplaceItems(tx, order, items); err != nil {
			return err
		}

		order.Status = req.Status
		order.CustomerID = req.CustomerID
		order.CustomerName = req.CustomerName
		order.CustomerPhone = req.CustomerPhone
		order.AdjustmentValue = req.AdjustmentValue
		order.Note = req.Note
		if req.Code != "" {
			order.Code = req.Code
		}

		coupon, affiliate, err := s.applyPricing(tx, tc, order, req.CouponCode, req.ReferralCode)
		if err != nil {
			return err
		}

		if err := s.applyDeltas(tx, tc,
			stock.PlanOrderDeltas(order.ID, order.Items, order.Status, products)); err != nil {
			return err
		}

		// Coupon usage and commission accrue once per order, on the edit
		// that first moves it into a stock-affecting status.
		if order.RedeemPromo() {
			if coupon != nil {
				if err := s.coupons.IncrementUsage(tx, tc, coupon.ID); err != nil {
					return err
				}
			}
			if affiliate != nil {
				if err := s.affiliates.AddCommission(tx, tc, affiliate.ID,
					affiliate.Commission(order.TotalAmount)); err != nil {
					return err
				}
			}
		}

		if err := s.orders.Save(tx, tc, order); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "order.update", map[string]interface{}{
			"order_id": order.ID,
			"code":     order.Code,
			"status":   order.Status,
			"total":    order.TotalAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":     "order_updated",
		"order_id": order.ID,
		"status":   order.Status,
	})
	return order, nil
}

func (s *orderService) UpdateStatus(tc tenant.Context, id uuid.UUID, status string) (*model.Order, error) {
	if !validStatus(status) {
		return nil, ErrUnknownStatus
	}

	var order *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.orders.FindByIDForUpdate(tx, tc, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		order = existing

		if err := s.revertOrder(tx, tc, order.ID); err != nil {
			return err
		}

		order.Status = status
		products, err := s.products.FindAllTx(tx, tc)
		if err != nil {
			return err
		}
		if err := s.applyDeltas(tx, tc,
			stock.PlanOrderDeltas(order.ID, order.Items, order.Status, products)); err != nil {
			return err
		}

		if order.RedeemPromo() {
			if order.CouponCode != "" {
				if coupon, err := s.coupons.FindByCode(tx, tc, order.CouponCode); err == nil {
					if err := s.coupons.IncrementUsage(tx, tc, coupon.ID); err != nil {
						return err
					}
				}
			}
			if order.AffiliateID != nil {
				affiliate, err := s.affiliates.FindByID(tc, *order.AffiliateID)
				if err == nil {
					if err := s.affiliates.AddCommission(tx, tc, affiliate.ID,
						affiliate.Commission(order.TotalAmount)); err != nil {
						return err
					}
				}
			}
		}

		if err := s.orders.Save(tx, tc, order); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "order.status", map[string]interface{}{
			"order_id": order.ID,
			"code":     order.Code,
			"status":   order.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":     "order_status_changed",
		"order_id": order.ID,
		"status":   order.Status,
	})
	return order, nil
}

// Delete removes the order and gives back whatever stock it was holding.
func (s *orderService) Delete(tc tenant.Context, id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForUpdate(tx, tc, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := s.revertOrder(tx, tc, order.ID); err != nil {
			return err
		}
		if err := s.orders.Delete(tx, tc, order.ID, tc.Actor()); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "order.delete", map[string]interface{}{
			"order_id": order.ID,
			"code":     order.Code,
		})
	})
	if err != nil {
		return err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":     "order_deleted",
		"order_id": id,
	})
	return nil
}

func (s *orderService) GetAll(tc tenant.Context) ([]model.Order, error) {
	return s.orders.FindAll(tc)
}

func (s *orderService) GetByID(tc tenant.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(tc, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}
