package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/tenant"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrDuplicateCoupon = errors.New("a coupon with this code already exists")
)

type CouponRequest struct {
	Code         string          `json:"code" validate:"required"`
	DiscountType string          `json:"discount_type" validate:"required,oneof=percent amount"`
	Value        decimal.Decimal `json:"value"`
	MaxUses      int             `json:"max_uses"`
	ExpiresAt    *time.Time      `json:"expires_at"`
	IsActive     *bool           `json:"is_active"`
}

type CouponService interface {
	Create(tc tenant.Context, req *CouponRequest) (*model.Coupon, error)
	GetAll(tc tenant.Context) ([]model.Coupon, error)
	Update(tc tenant.Context, id uuid.UUID, req *CouponRequest) (*model.Coupon, error)
	Delete(tc tenant.Context, id uuid.UUID) error

	// Check validates a code and prices its discount against a subtotal,
	// without consuming a use.
	Check(tc tenant.Context, code string, subTotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error)
}

type couponService struct {
	db      *gorm.DB
	coupons repository.CouponRepository
}

func NewCouponService(db *gorm.DB, coupons repository.CouponRepository) CouponService {
	return &couponService{db: db, coupons: coupons}
}

func (s *couponService) Create(tc tenant.Context, req *CouponRequest) (*model.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if _, err := s.coupons.FindByCode(s.db, tc, code); err == nil {
		return nil, ErrDuplicateCoupon
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	coupon := &model.Coupon{
		Code:         code,
		DiscountType: model.DiscountType(req.DiscountType),
		Value:        req.Value,
		MaxUses:      req.MaxUses,
		ExpiresAt:    req.ExpiresAt,
		IsActive:     true,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if err := s.coupons.Create(tc, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) GetAll(tc tenant.Context) ([]model.Coupon, error) {
	return s.coupons.FindAll(tc)
}

func (s *couponService) Update(tc tenant.Context, id uuid.UUID, req *CouponRequest) (*model.Coupon, error) {
	all, err := s.coupons.FindAll(tc)
	if err != nil {
		return nil, err
	}
	var coupon *model.Coupon
	for i := range all {
		if all[i].ID == id {
			coupon = &all[i]
			break
		}
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	coupon.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	coupon.DiscountType = model.DiscountType(req.DiscountType)
	coupon.Value = req.Value
	coupon.MaxUses = req.MaxUses
	coupon.ExpiresAt = req.ExpiresAt
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.coupons.Update(tc, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) Delete(tc tenant.Context, id uuid.UUID) error {
	return s.coupons.Delete(tc, id, tc.Actor())
}

func (s *couponService) Check(tc tenant.Context, code string, subTotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	coupon, err := s.coupons.FindByCode(s.db, tc, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, decimal.Zero, ErrCouponNotFound
		}
		return nil, decimal.Zero, err
	}
	if err := coupon.Validate(time.Now()); err != nil {
		return nil, decimal.Zero, err
	}
	return coupon, coupon.Discount(subTotal), nil
}
