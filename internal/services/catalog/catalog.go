// Package catalog каталог автомобилей и заказы.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/storage"
)

// ErrCarNotFound заказ ссылается на несуществующий автомобиль.
var ErrCarNotFound = errors.New("car not found")

// CarRepository операции над таблицей cars.
type CarRepository interface {
	Create(ctx context.Context, c models.Car) (*models.Car, error)
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	List(ctx context.Context, skip, limit int) ([]*models.Car, error)
}

// OrderRepository операции над таблицей orders.
type OrderRepository interface {
	Create(ctx context.Context, in models.OrderCreate) (*models.Order, error)
	List(ctx context.Context, skip, limit int) ([]*models.Order, error)
}

// Repositories выдаёт репозитории, привязанные к пулу или транзакции.
type Repositories struct {
	Cars   func(db storage.DBTX) CarRepository
	Orders func(db storage.DBTX) OrderRepository
}

// Service бизнес-логика каталога.
type Service struct {
	db    *sql.DB
	repos Repositories
	log   *slog.Logger
}

// NewService создаёт Service.
func NewService(db *sql.DB, repos Repositories, log *slog.Logger) *Service {
	return &Service{db: db, repos: repos, log: log}
}

// CreateCar добавляет автомобиль.
func (s *Service) CreateCar(ctx context.Context, c models.Car) (*models.Car, error) {
	created, err := s.repos.Cars(s.db).Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.log.Info("car created", slog.Int64("id", created.ID))
	return created, nil
}

// GetCar возвращает автомобиль или nil.
func (s *Service) GetCar(ctx context.Context, id int64) (*models.Car, error) {
	return s.repos.Cars(s.db).GetByID(ctx, id)
}

// ListCars страница каталога.
func (s *Service) ListCars(ctx context.Context, skip, limit int) ([]*models.Car, error) {
	return s.repos.Cars(s.db).List(ctx, skip, limit)
}

// CreateOrder оформляет заказ на существующий автомобиль.
func (s *Service) CreateOrder(ctx context.Context, in models.OrderCreate) (*models.Order, error) {
	var created *models.Order
	err := storage.WithTx(ctx, s.db, nil, func(ctx context.Context, tx storage.DBTX) error {
		car, err := s.repos.Cars(tx).GetByID(ctx, in.CarID)
		if err != nil {
			return err
		}
		if car == nil {
			return ErrCarNotFound
		}
		created, err = s.repos.Orders(tx).Create(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order created", slog.Int64("id", created.ID), slog.Int64("car_id", created.CarID))
	return created, nil
}

// ListOrders страница заказов.
func (s *Service) ListOrders(ctx context.Context, skip, limit int) ([]*models.Order, error) {
	return s.repos.Orders(s.db).List(ctx, skip, limit)
}
