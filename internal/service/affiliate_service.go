package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/tenant"
)

var (
	ErrAffiliateNotFound = errors.New("affiliate not found")
	ErrDuplicateReferral = errors.New("an affiliate with this referral code already exists")
)

type AffiliateRequest struct {
	Name         string          `json:"name" validate:"required"`
	Phone        string          `json:"phone"`
	ReferralCode string          `json:"referral_code" validate:"required"`
	Percent      decimal.Decimal `json:"percent"`
}

type AffiliateService interface {
	Create(tc tenant.Context, req *AffiliateRequest) (*model.Affiliate, error)
	GetAll(tc tenant.Context) ([]model.Affiliate, error)
	GetByID(tc tenant.Context, id uuid.UUID) (*model.Affiliate, error)
	Update(tc tenant.Context, id uuid.UUID, req *AffiliateRequest) (*model.Affiliate, error)
	Delete(tc tenant.Context, id uuid.UUID) error

	// Settle pays out the whole unpaid balance.
	Settle(tc tenant.Context, id uuid.UUID) (*model.Affiliate, error)
}

type affiliateService struct {
	db         *gorm.DB
	affiliates repository.AffiliateRepository
	audits     repository.AuditLogRepository
}

func NewAffiliateService(db *gorm.DB, affiliates repository.AffiliateRepository, audits repository.AuditLogRepository) AffiliateService {
	return &affiliateService{db: db, affiliates: affiliates, audits: audits}
}

func (s *affiliateService) Create(tc tenant.Context, req *AffiliateRequest) (*model.Affiliate, error) {
	code := strings.ToUpper(strings.TrimSpace(req.ReferralCode))
	if _, err := s.affiliates.FindByReferralCode(s.db, tc, code); err == nil {
		return nil, ErrDuplicateReferral
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	affiliate := &model.Affiliate{
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		ReferralCode: code,
		Percent:      req.Percent,
	}
	if err := s.affiliates.Create(tc, affiliate); err != nil {
		return nil, err
	}
	return affiliate, nil
}

func (s *affiliateService) GetAll(tc tenant.Context) ([]model.Affiliate, error) {
	return s.affiliates.FindAll(tc)
}

func (s *affiliateService) GetByID(tc tenant.Context, id uuid.UUID) (*model.Affiliate, error) {
	affiliate, err := s.affiliates.FindByID(tc, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, err
}

func (s *affiliateService) Update(tc tenant.Context, id uuid.UUID, req *AffiliateRequest) (*model.Affiliate, error) {
	affiliate, err := s.GetByID(tc, id)
	if err != nil {
		return nil, err
	}

	affiliate.Name = strings.TrimSpace(req.Name)
	affiliate.Phone = req.Phone
	affiliate.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))
	affiliate.Percent = req.Percent

	if err := s.affiliates.Update(tc, affiliate); err != nil {
		return nil, err
	}
	return affiliate, nil
}

func (s *affiliateService) Delete(tc tenant.Context, id uuid.UUID) error {
	if _, err := s.GetByID(tc, id); err != nil {
		return err
	}
	return s.affiliates.Delete(tc, id, tc.Actor())
}

func (s *affiliateService) Settle(tc tenant.Context, id uuid.UUID) (*model.Affiliate, error) {
	affiliate, err := s.GetByID(tc, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.affiliates.Settle(tc, id); err != nil {
			return err
		}
		return s.audits.Create(tx, tc, "affiliate.settle", map[string]interface{}{
			"affiliate_id": id,
			"amount":       affiliate.UnpaidAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(tc, id)
}
