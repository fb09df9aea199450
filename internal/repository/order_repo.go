package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-pos-ws/internal/model"
)

// OrderRepository is the Postgres-backed order table. It satisfies
// store.RemoteStore: errors mean unreachable, an empty result means the table
// is genuinely empty.
type OrderRepository interface {
	FetchAll(ctx context.Context) ([]model.Order, error)
	Create(ctx context.Context, o *model.Order) error
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	UpdateKitchenStatus(ctx context.Context, id string, ks model.KitchenStatus) error
	DeleteAll(ctx context.Context) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) FetchAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Order("timestamp ASC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Create upserts by id so restoration passes can re-submit cached orders
// without tripping over rows that survived on the remote side.
func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(o).Error
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepo) UpdateKitchenStatus(ctx context.Context, id string, ks model.KitchenStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("kitchen_status", ks).Error
}

func (r *orderRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Order{}).Error
}
