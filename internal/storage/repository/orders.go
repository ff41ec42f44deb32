package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/storage"
)

// Orders репозиторий таблицы orders.
type Orders struct {
	db storage.DBTX
}

// NewOrders создаёт репозиторий заказов поверх db.
func NewOrders(db storage.DBTX) *Orders {
	return &Orders{db: db}
}

// Create сохраняет заказ, created_at выставляет база.
func (r *Orders) Create(ctx context.Context, in models.OrderCreate) (*models.Order, error) {
	const op = "repository.Orders.Create"

	var o models.Order
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO orders (car_id, quantity) VALUES ($1, $2)
		 RETURNING id, car_id, quantity, created_at`,
		in.CarID, in.Quantity,
	).Scan(&o.ID, &o.CarID, &o.Quantity, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

// List возвращает страницу заказов в порядке id.
func (r *Orders) List(ctx context.Context, skip, limit int) ([]*models.Order, error) {
	const op = "repository.Orders.List"

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, quantity, created_at FROM orders ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CarID, &o.Quantity, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
