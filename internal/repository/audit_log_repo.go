package repository

import (
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

type AuditLogRepository interface {
	// Create appends one entry; pass the surrounding transaction so the
	// audit trail commits or rolls back with the operation it describes.
	Create(tx *gorm.DB, tc tenant.Context, action string, details map[string]interface{}) error
	FindRecent(tc tenant.Context, limit int) ([]model.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

func (r *auditLogRepo) Create(tx *gorm.DB, tc tenant.Context, action string, details map[string]interface{}) error {
	entry := &model.AuditLog{
		Action:  action,
		User:    tc.Actor(),
		UserID:  tc.UserID,
		Details: model.AuditDetails(details),
	}
	entry.OwnerID = tc.OwnerID
	entry.CreatedBy = tc.UserID
	return tx.Create(entry).Error
}

func (r *auditLogRepo) FindRecent(tc tenant.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []model.AuditLog
	err := r.db.Where("owner_id = ?", tc.OwnerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
