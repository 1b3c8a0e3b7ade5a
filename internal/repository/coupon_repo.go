package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

type CouponRepository interface {
	Create(tc tenant.Context, coupon *model.Coupon) error
	FindAll(tc tenant.Context) ([]model.Coupon, error)
	FindByCode(tx *gorm.DB, tc tenant.Context, code string) (*model.Coupon, error)
	Update(tc tenant.Context, coupon *model.Coupon) error
	Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error

	// IncrementUsage bumps used_count atomically inside the order
	// transaction that consumed the coupon.
	IncrementUsage(tx *gorm.DB, tc tenant.Context, id uuid.UUID) error
}

type couponRepo struct {
	db *gorm.DB
}

func NewCouponRepo(db *gorm.DB) CouponRepository {
	return &couponRepo{db}
}

func (r *couponRepo) Create(tc tenant.Context, coupon *model.Coupon) error {
	coupon.OwnerID = tc.OwnerID
	coupon.CreatedBy = tc.UserID
	coupon.UpdatedBy = tc.UserID
	return r.db.Create(coupon).Error
}

func (r *couponRepo) FindAll(tc tenant.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := r.db.Where("owner_id = ?", tc.OwnerID).
		Order("created_at DESC").
		Find(&coupons).Error
	return coupons, err
}

func (r *couponRepo) FindByCode(tx *gorm.DB, tc tenant.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := tx.First(&coupon, "code = ? AND owner_id = ?", code, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepo) Update(tc tenant.Context, coupon *model.Coupon) error {
	coupon.UpdatedBy = tc.UserID
	return r.db.Where("owner_id = ?", tc.OwnerID).Save(coupon).Error
}

func (r *couponRepo) Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Coupon{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *couponRepo) IncrementUsage(tx *gorm.DB, tc tenant.Context, id uuid.UUID) error {
	return tx.Model(&model.Coupon{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
