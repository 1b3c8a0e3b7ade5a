package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

type AffiliateRepository interface {
	Create(tc tenant.Context, affiliate *model.Affiliate) error
	FindAll(tc tenant.Context) ([]model.Affiliate, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Affiliate, error)
	FindByReferralCode(tx *gorm.DB, tc tenant.Context, code string) (*model.Affiliate, error)
	Update(tc tenant.Context, affiliate *model.Affiliate) error
	Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error

	// AddCommission accrues earned commission on the unpaid balance inside
	// the order transaction.
	AddCommission(tx *gorm.DB, tc tenant.Context, id uuid.UUID, amount decimal.Decimal) error

	// Settle moves the whole unpaid balance to paid (a payout event).
	Settle(tc tenant.Context, id uuid.UUID) error
}

type affiliateRepo struct {
	db *gorm.DB
}

func NewAffiliateRepo(db *gorm.DB) AffiliateRepository {
	return &affiliateRepo{db}
}

func (r *affiliateRepo) Create(tc tenant.Context, affiliate *model.Affiliate) error {
	affiliate.OwnerID = tc.OwnerID
	affiliate.CreatedBy = tc.UserID
	affiliate.UpdatedBy = tc.UserID
	return r.db.Create(affiliate).Error
}

func (r *affiliateRepo) FindAll(tc tenant.Context) ([]model.Affiliate, error) {
	var affiliates []model.Affiliate
	err := r.db.Where("owner_id = ?", tc.OwnerID).
		Order("created_at DESC").
		Find(&affiliates).Error
	return affiliates, err
}

func (r *affiliateRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Affiliate, error) {
	var affiliate model.Affiliate
	err := r.db.First(&affiliate, "id = ? AND owner_id = ?", id, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func (r *affiliateRepo) FindByReferralCode(tx *gorm.DB, tc tenant.Context, code string) (*model.Affiliate, error) {
	var affiliate model.Affiliate
	err := tx.First(&affiliate, "referral_code = ? AND owner_id = ?", code, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func (r *affiliateRepo) Update(tc tenant.Context, affiliate *model.Affiliate) error {
	affiliate.UpdatedBy = tc.UserID
	return r.db.Where("owner_id = ?", tc.OwnerID).Save(affiliate).Error
}

func (r *affiliateRepo) Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Affiliate{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *affiliateRepo) AddCommission(tx *gorm.DB, tc tenant.Context, id uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.Affiliate{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		UpdateColumn("unpaid_amount", gorm.Expr("unpaid_amount + ?", amount)).Error
}

func (r *affiliateRepo) Settle(tc tenant.Context, id uuid.UUID) error {
	return r.db.Model(&model.Affiliate{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(map[string]interface{}{
			"paid_amount":   gorm.Expr("paid_amount + unpaid_amount"),
			"unpaid_amount": decimal.Zero,
			"updated_by":    tc.UserID,
		}).Error
}
