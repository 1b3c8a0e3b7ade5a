package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

var ErrNotFound = errors.New("record not found")

type ProductRepository interface {
	Create(tc tenant.Context, product *model.Product) error
	FindAll(tc tenant.Context) ([]model.Product, error)

	// FindAllTx reads the catalog through a live transaction so link
	// resolution sees the same snapshot the reconciliation writes against.
	FindAllTx(tx *gorm.DB, tc tenant.Context) ([]model.Product, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Product, error)
	Update(tc tenant.Context, product *model.Product) error
	Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error

	// UpdateFields applies a partial update (bulk-import upserts); only the
	// given columns are written, so unmapped sheet columns never blank
	// stored values.
	UpdateFields(tx *gorm.DB, tc tenant.Context, id uuid.UUID, fields map[string]interface{}) error

	// AdjustStock applies a server-side signed delta to the stock counter.
	// The increment happens inside the database, never as a client-computed
	// new-value write, so concurrent order confirmations cannot lose
	// updates.
	AdjustStock(tx *gorm.DB, tc tenant.Context, id uuid.UUID, delta decimal.Decimal) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tc tenant.Context, product *model.Product) error {
	product.OwnerID = tc.OwnerID
	product.CreatedBy = tc.UserID
	product.UpdatedBy = tc.UserID
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(tc tenant.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("owner_id = ?", tc.OwnerID).
		Order("created_at ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindAllTx(tx *gorm.DB, tc tenant.Context) ([]model.Product, error) {
	var products []model.Product
	err := tx.Where("owner_id = ?", tc.OwnerID).
		Order("created_at ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ? AND owner_id = ?", id, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(tc tenant.Context, product *model.Product) error {
	product.UpdatedBy = tc.UserID
	return r.db.Where("owner_id = ?", tc.OwnerID).Save(product).Error
}

func (r *productRepo) Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *productRepo) UpdateFields(tx *gorm.DB, tc tenant.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_by"] = tc.UserID
	return tx.Model(&model.Product{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(fields).Error
}

func (r *productRepo) AdjustStock(tx *gorm.DB, tc tenant.Context, id uuid.UUID, delta decimal.Decimal) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
