package repository

import (
	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindByID(id string) (*model.Product, error)
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id string) error
	SeedDefaults() error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id string) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) SeedDefaults() error {
	for _, p := range model.DefaultProducts {
		var existing model.Product
		err := r.db.First(&existing, "id = ?", p.ID).Error
		if err != gorm.ErrRecordNotFound {
			continue
		}
		if err := r.db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
