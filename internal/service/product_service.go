package service

import (
	"errors"
	"strings"

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
	ErrDuplicateProduct = errors.New("a product with this sku and category already exists")
	ErrLinkTargetLinked = errors.New("link target is itself linked to another product")
	ErrLinkCycle        = errors.New("product cannot link to itself")
)

type ProductRequest struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name" validate:"required"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	PriceBuy  decimal.Decimal `json:"price_buy"`
	PriceSell decimal.Decimal `json:"price_sell"`
	Note      string          `json:"note"`
}

type ProductService interface {
	Create(tc tenant.Context, req *ProductRequest) (*model.Product, error)
	GetAll(tc tenant.Context) ([]model.Product, error)
	GetByID(tc tenant.Context, id uuid.UUID) (*model.Product, error)
	Update(tc tenant.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	Delete(tc tenant.Context, id uuid.UUID) error

	// Link makes product id an alias of target: its sales debit the target's
	// counter from now on. Unlink restores an own counter starting at zero.
	Link(tc tenant.Context, id, targetID uuid.UUID) (*model.Product, error)
	Unlink(tc tenant.Context, id uuid.UUID) (*model.Product, error)

	// MasterOf reports which product's counter is authoritative for id.
	MasterOf(tc tenant.Context, id uuid.UUID) (*model.Product, error)
}

type productService struct {
	db       *gorm.DB
	products repository.ProductRepository
	audits   repository.AuditLogRepository
	hub      *ws.Hub
}

func NewProductService(db *gorm.DB, products repository.ProductRepository, audits repository.AuditLogRepository, hub *ws.Hub) ProductService {
	return &productService{db: db, products: products, audits: audits, hub: hub}
}

func sameSKUCategory(p model.Product, sku, category string) bool {
	return strings.EqualFold(strings.TrimSpace(p.SKU), strings.TrimSpace(sku)) &&
		strings.EqualFold(strings.TrimSpace(p.Category), strings.TrimSpace(category))
}

func (s *productService) Create(tc tenant.Context, req *ProductRequest) (*model.Product, error) {
	if req.SKU != "" {
		existing, err := s.products.FindAll(tc)
		if err != nil {
			return nil, err
		}
		for _, p := range existing {
			if sameSKUCategory(p, req.SKU, req.Category) {
				return nil, ErrDuplicateProduct
			}
		}
	}

	product := &model.Product{
		SKU:       strings.TrimSpace(req.SKU),
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.TrimSpace(req.Category),
		Unit:      req.Unit,
		PriceBuy:  req.PriceBuy,
		PriceSell: req.PriceSell,
		Note:      req.Note,
	}
	if err := s.products.Create(tc, product); err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":       "product_created",
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) GetAll(tc tenant.Context) ([]model.Product, error) {
	return s.products.FindAll(tc)
}

func (s *productService) GetByID(tc tenant.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(tc, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *productService) Update(tc tenant.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	product, err := s.GetByID(tc, id)
	if err != nil {
		return nil, err
	}

	product.SKU = strings.TrimSpace(req.SKU)
	product.Name = strings.TrimSpace(req.Name)
	product.Category = strings.TrimSpace(req.Category)
	product.Unit = req.Unit
	product.PriceBuy = req.PriceBuy
	product.PriceSell = req.PriceSell
	product.Note = req.Note

	if err := s.products.Update(tc, product); err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":       "product_updated",
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) Delete(tc tenant.Context, id uuid.UUID) error {
	if _, err := s.GetByID(tc, id); err != nil {
		return err
	}
	if err := s.products.Delete(tc, id, tc.Actor()); err != nil {
		return err
	}
	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":       "product_deleted",
		"product_id": id,
	})
	return nil
}

func (s *productService) Link(tc tenant.Context, id, targetID uuid.UUID) (*model.Product, error) {
	if id == targetID {
		return nil, ErrLinkCycle
	}

	var product *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		target, err := s.products.FindByID(tc, targetID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		// Only one level of indirection: a link must point at a master.
		if !target.IsMaster() {
			return ErrLinkTargetLinked
		}

		product, err = s.products.FindByID(tc, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		product.LinkedProductID = &target.ID
		// An alias never carries its own count.
		product.Stock = decimal.Zero
		if err := s.products.Update(tc, product); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "product.link", map[string]interface{}{
			"product_id": product.ID,
			"target_id":  target.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":       "product_linked",
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) Unlink(tc tenant.Context, id uuid.UUID) (*model.Product, error) {
	var product *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.products.FindByID(tc, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		product.LinkedProductID = nil
		if err := s.products.Update(tc, product); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "product.unlink", map[string]interface{}{
			"product_id": product.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":       "product_unlinked",
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) MasterOf(tc tenant.Context, id uuid.UUID) (*model.Product, error) {
	products, err := s.products.FindAll(tc)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID != id {
			continue
		}
		masterID := stock.ResolveMaster(p, products)
		for i := range products {
			if products[i].ID == masterID {
				return &products[i], nil
			}
		}
	}
	return nil, ErrProductNotFound
}
