package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

type CustomerRepository interface {
	Create(tc tenant.Context, customer *model.Customer) error
	FindAll(tc tenant.Context) ([]model.Customer, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Customer, error)
	FindByPhone(tc tenant.Context, phone string) (*model.Customer, error)
	Update(tc tenant.Context, customer *model.Customer) error
	Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error
	UpdateFields(tx *gorm.DB, tc tenant.Context, id uuid.UUID, fields map[string]interface{}) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(tc tenant.Context, customer *model.Customer) error {
	customer.OwnerID = tc.OwnerID
	customer.CreatedBy = tc.UserID
	customer.UpdatedBy = tc.UserID
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll(tc tenant.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Where("owner_id = ?", tc.OwnerID).
		Order("created_at DESC").
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ? AND owner_id = ?", id, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindByPhone(tc tenant.Context, phone string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "phone = ? AND owner_id = ?", phone, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Update(tc tenant.Context, customer *model.Customer) error {
	customer.UpdatedBy = tc.UserID
	return r.db.Where("owner_id = ?", tc.OwnerID).Save(customer).Error
}

func (r *customerRepo) Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Customer{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *customerRepo) UpdateFields(tx *gorm.DB, tc tenant.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_by"] = tc.UserID
	return tx.Model(&model.Customer{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(fields).Error
}
