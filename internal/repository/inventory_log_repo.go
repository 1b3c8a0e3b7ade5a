package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

type InventoryLogRepository interface {
	Create(tx *gorm.DB, tc tenant.Context, log *model.InventoryLog) error

	// FindByOrderID returns the active (non-reverted) log entries tied to
	// an order; the reconciler reverses these before reapplying deltas.
	FindByOrderID(tx *gorm.DB, tc tenant.Context, orderID uuid.UUID) ([]model.InventoryLog, error)

	// RevertByOrderID soft-deletes an order's log entries, marking them as
	// reverted while keeping them for audit history.
	RevertByOrderID(tx *gorm.DB, tc tenant.Context, orderID uuid.UUID, revertedBy string) error

	FindByProductID(tc tenant.Context, productID uuid.UUID, limit int) ([]model.InventoryLog, error)
	FindRange(tc tenant.Context, from, to time.Time) ([]model.InventoryLog, error)
}

type inventoryLogRepo struct {
	db *gorm.DB
}

func NewInventoryLogRepo(db *gorm.DB) InventoryLogRepository {
	return &inventoryLogRepo{db}
}

func (r *inventoryLogRepo) Create(tx *gorm.DB, tc tenant.Context, log *model.InventoryLog) error {
	log.OwnerID = tc.OwnerID
	log.CreatedBy = tc.UserID
	log.UpdatedBy = tc.UserID
	return tx.Create(log).Error
}

func (r *inventoryLogRepo) FindByOrderID(tx *gorm.DB, tc tenant.Context, orderID uuid.UUID) ([]model.InventoryLog, error) {
	var logs []model.InventoryLog
	err := tx.Where("order_id = ? AND owner_id = ?", orderID, tc.OwnerID).
		Find(&logs).Error
	return logs, err
}

func (r *inventoryLogRepo) RevertByOrderID(tx *gorm.DB, tc tenant.Context, orderID uuid.UUID, revertedBy string) error {
	if err := tx.Model(&model.InventoryLog{}).
		Where("order_id = ? AND owner_id = ?", orderID, tc.OwnerID).
		Update("deleted_by", revertedBy).Error; err != nil {
		return err
	}
	return tx.Where("order_id = ? AND owner_id = ?", orderID, tc.OwnerID).
		Delete(&model.InventoryLog{}).Error
}

func (r *inventoryLogRepo) FindByProductID(tc tenant.Context, productID uuid.UUID, limit int) ([]model.InventoryLog, error) {
	var logs []model.InventoryLog
	q := r.db.Where("product_id = ? AND owner_id = ?", productID, tc.OwnerID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&logs).Error
	return logs, err
}

func (r *inventoryLogRepo) FindRange(tc tenant.Context, from, to time.Time) ([]model.InventoryLog, error) {
	var logs []model.InventoryLog
	err := r.db.Where("owner_id = ? AND created_at BETWEEN ? AND ?", tc.OwnerID, from, to).
		Find(&logs).Error
	return logs, err
}
