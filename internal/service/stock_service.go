package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/stock"
	"go-bizman-ws/internal/tenant"
	"go-bizman-ws/internal/ws"
)

var (
	ErrNonPositiveQty = errors.New("quantity must be positive")
	ErrSelfTransfer   = errors.New("cannot transfer stock to the same product")
)

type StockAdjustRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Qty       decimal.Decimal `json:"qty"`
	Note      string          `json:"note"`
}

type StockTransferRequest struct {
	FromProductID uuid.UUID       `json:"from_product_id" validate:"uuid_required"`
	ToProductID   uuid.UUID       `json:"to_product_id" validate:"uuid_required"`
	Qty           decimal.Decimal `json:"qty"`
	Note          string          `json:"note"`
}

// StockService covers the manual ledger operations: opening stock, audit
// corrections and transfers. Order-driven deductions live in OrderService.
// Every operation resolves the target to its master record first, so
// adjusting an alias product adjusts the shared counter.
type StockService interface {
	Init(tc tenant.Context, req *StockAdjustRequest) (*model.InventoryLog, error)
	Audit(tc tenant.Context, req *StockAdjustRequest) (*model.InventoryLog, error)
	Transfer(tc tenant.Context, req *StockTransferRequest) error
	History(tc tenant.Context, productID uuid.UUID, limit int) ([]model.InventoryLog, error)
}

type stockService struct {
	db       *gorm.DB
	products repository.ProductRepository
	logs     repository.InventoryLogRepository
	audits   repository.AuditLogRepository
	hub      *ws.Hub
}

func NewStockService(
	db *gorm.DB,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
	audits repository.AuditLogRepository,
	hub *ws.Hub,
) StockService {
	return &stockService{db: db, products: products, logs: logs, audits: audits, hub: hub}
}

func (s *stockService) resolveMaster(tx *gorm.DB, tc tenant.Context, id uuid.UUID) (uuid.UUID, []model.Product, error) {
	products, err := s.products.FindAllTx(tx, tc)
	if err != nil {
		return uuid.Nil, nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return stock.ResolveMaster(p, products), products, nil
		}
	}
	return uuid.Nil, nil, ErrProductNotFound
}

// Init records opening stock: the quantity is added to the master counter
// with an `init` ledger entry.
func (s *stockService) Init(tc tenant.Context, req *StockAdjustRequest) (*model.InventoryLog, error) {
	if !req.Qty.IsPositive() {
		return nil, ErrNonPositiveQty
	}

	var entry *model.InventoryLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		masterID, _, err := s.resolveMaster(tx, tc, req.ProductID)
		if err != nil {
			return err
		}
		if err := s.products.AdjustStock(tx, tc, masterID, req.Qty); err != nil {
			return err
		}
		entry = &model.InventoryLog{
			ProductID: masterID,
			Type:      model.LogInit,
			Qty:       req.Qty,
			DiffType:  model.DiffIncrease,
			Note:      req.Note,
		}
		if err := s.logs.Create(tx, tc, entry); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "stock.init", map[string]interface{}{
			"product_id": masterID,
			"qty":        req.Qty,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishChange(tc, entry.ProductID)
	return entry, nil
}

// Audit corrects the counter to a physically counted value. Qty here is the
// counted quantity, not a delta; the ledger entry records the difference.
func (s *stockService) Audit(tc tenant.Context, req *StockAdjustRequest) (*model.InventoryLog, error) {
	var entry *model.InventoryLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		masterID, products, err := s.resolveMaster(tx, tc, req.ProductID)
		if err != nil {
			return err
		}

		var current decimal.Decimal
		for _, p := range products {
			if p.ID == masterID {
				current = p.Stock
				break
			}
		}
		diff := req.Qty.Sub(current)
		if diff.IsZero() {
			return nil
		}

		if err := s.products.AdjustStock(tx, tc, masterID, diff); err != nil {
			return err
		}
		diffType := model.DiffIncrease
		if diff.IsNegative() {
			diffType = model.DiffDecrease
		}
		entry = &model.InventoryLog{
			ProductID: masterID,
			Type:      model.LogAudit,
			Qty:       diff.Abs(),
			DiffType:  diffType,
			Note:      req.Note,
		}
		if err := s.logs.Create(tx, tc, entry); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "stock.audit", map[string]interface{}{
			"product_id": masterID,
			"counted":    req.Qty,
			"diff":       diff,
		})
	})
	if err != nil {
		return nil, err
	}

	if entry != nil {
		s.publishChange(tc, entry.ProductID)
	}
	return entry, nil
}

// Transfer moves quantity between two counters, one decrease and one
// increase in the same transaction.
func (s *stockService) Transfer(tc tenant.Context, req *StockTransferRequest) error {
	if !req.Qty.IsPositive() {
		return ErrNonPositiveQty
	}

	var fromID, toID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		fromID, _, err = s.resolveMaster(tx, tc, req.FromProductID)
		if err != nil {
			return err
		}
		toID, _, err = s.resolveMaster(tx, tc, req.ToProductID)
		if err != nil {
			return err
		}
		if fromID == toID {
			return ErrSelfTransfer
		}

		if err := s.products.AdjustStock(tx, tc, fromID, req.Qty.Neg()); err != nil {
			return err
		}
		if err := s.products.AdjustStock(tx, tc, toID, req.Qty); err != nil {
			return err
		}
		out := &model.InventoryLog{
			ProductID: fromID,
			Type:      model.LogTransfer,
			Qty:       req.Qty,
			DiffType:  model.DiffDecrease,
			Note:      req.Note,
		}
		in := &model.InventoryLog{
			ProductID: toID,
			Type:      model.LogTransfer,
			Qty:       req.Qty,
			DiffType:  model.DiffIncrease,
			Note:      req.Note,
		}
		if err := s.logs.Create(tx, tc, out); err != nil {
			return err
		}
		if err := s.logs.Create(tx, tc, in); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "stock.transfer", map[string]interface{}{
			"from_product_id": fromID,
			"to_product_id":   toID,
			"qty":             req.Qty,
		})
	})
	if err != nil {
		return err
	}

	s.publishChange(tc, fromID)
	s.publishChange(tc, toID)
	return nil
}

func (s *stockService) History(tc tenant.Context, productID uuid.UUID, limit int) ([]model.InventoryLog, error) {
	products, err := s.products.FindAll(tc)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == productID {
			return s.logs.FindByProductID(tc, stock.ResolveMaster(p, products), limit)
		}
	}
	return nil, ErrProductNotFound
}

func (s *stockService) publishChange(tc tenant.Context, productID uuid.UUID) {
	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":       "stock_changed",
		"product_id": productID,
	})
}
