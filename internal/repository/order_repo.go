package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

type OrderRepository interface {
	Create(tx *gorm.DB, tc tenant.Context, order *model.Order) error
	Save(tx *gorm.DB, tc tenant.Context, order *model.Order) error

	// ReplaceItems swaps an order's line items wholesale; edits always send
	// the full item list.
	ReplaceItems(tx *gorm.DB, order *model.Order, items []model.OrderItem) error

	Delete(tx *gorm.DB, tc tenant.Context, id uuid.UUID, deletedBy string) error

	FindAll(tc tenant.Context) ([]model.Order, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Order, error)

	// FindByIDForUpdate loads and row-locks the order inside a transaction
	// so two concurrent edits serialize on the reconciliation.
	FindByIDForUpdate(tx *gorm.DB, tc tenant.Context, id uuid.UUID) (*model.Order, error)

	FindRange(tc tenant.Context, from, to time.Time) ([]model.Order, error)
	CountByStatus(tc tenant.Context) (map[string]int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, tc tenant.Context, order *model.Order) error {
	order.OwnerID = tc.OwnerID
	order.CreatedBy = tc.UserID
	order.UpdatedBy = tc.UserID
	return tx.Create(order).Error
}

func (r *orderRepo) Save(tx *gorm.DB, tc tenant.Context, order *model.Order) error {
	order.UpdatedBy = tc.UserID
	return tx.Omit("Items").Where("owner_id = ?", tc.OwnerID).Save(order).Error
}

func (r *orderRepo) ReplaceItems(tx *gorm.DB, order *model.Order, items []model.OrderItem) error {
	if err := tx.Where("order_id = ?", order.ID).
		Unscoped().
		Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *orderRepo) Delete(tx *gorm.DB, tc tenant.Context, id uuid.UUID, deletedBy string) error {
	return tx.Model(&model.Order{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *orderRepo) FindAll(tc tenant.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where("owner_id = ?", tc.OwnerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").
		First(&order, "id = ? AND owner_id = ?", id, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, tc tenant.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Preload("Items").
		First(&order, "id = ? AND owner_id = ?", id, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindRange(tc tenant.Context, from, to time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("owner_id = ? AND created_at BETWEEN ? AND ?", tc.OwnerID, from, to).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountByStatus(tc tenant.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as total").
		Where("owner_id = ?", tc.OwnerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}
