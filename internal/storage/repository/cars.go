package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/storage"
)

const carColumns = `id, brand, model, year, body_type, engine_type, engine_size_liters,
	horse_power, transmission, fuel_type, mileage_km, top_speed_kmh, color,
	features, price_usd, discount_percent, num_in_stock, description`

// Cars репозиторий таблицы cars.
type Cars struct {
	db storage.DBTX
}

// NewCars создаёт репозиторий автомобилей поверх db.
func NewCars(db storage.DBTX) *Cars {
	return &Cars{db: db}
}

// Create добавляет автомобиль в каталог. Поле ID входного значения игнорируется.
func (r *Cars) Create(ctx context.Context, c models.Car) (*models.Car, error) {
	const op = "repository.Cars.Create"

	query := `INSERT INTO cars (brand, model, year, body_type, engine_type, engine_size_liters,
				horse_power, transmission, fuel_type, mileage_km, top_speed_kmh, color,
				features, price_usd, discount_percent, num_in_stock, description)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			  RETURNING ` + carColumns
	created, err := scanCar(r.db.QueryRowContext(ctx, query,
		c.Brand, c.Model, c.Year, c.BodyType, c.EngineType, c.EngineSizeLiters,
		c.HorsePower, c.Transmission, c.FuelType, c.MileageKm, c.TopSpeedKmh, c.Color,
		c.Features, c.PriceUSD, c.DiscountPercent, c.NumInStock, c.Description))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetByID возвращает автомобиль или nil, если его нет.
func (r *Cars) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	const op = "repository.Cars.GetByID"

	c, err := scanCar(r.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// List возвращает страницу каталога в порядке id.
func (r *Cars) List(ctx context.Context, skip, limit int) ([]*models.Car, error) {
	const op = "repository.Cars.List"

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+carColumns+` FROM cars ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanCar(row rowScanner) (*models.Car, error) {
	var c models.Car
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.BodyType, &c.EngineType, &c.EngineSizeLiters,
		&c.HorsePower, &c.Transmission, &c.FuelType, &c.MileageKm, &c.TopSpeedKmh, &c.Color,
		&c.Features, &c.PriceUSD, &c.DiscountPercent, &c.NumInStock, &c.Description)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
