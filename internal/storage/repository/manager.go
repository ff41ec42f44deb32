// Package repository реализует доступ к таблицам PostgreSQL.
//
// Каждый репозиторий привязывается к storage.DBTX, поэтому один и тот же
// код работает и поверх пула, и внутри транзакции.
package repository

import (
	"github.com/magabrotheeeer/syara/internal/storage"
)

// Manager выдаёт репозитории, привязанные к переданному DBTX.
type Manager struct{}

// NewManager создаёт Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Users возвращает репозиторий пользователей.
func (m *Manager) Users(db storage.DBTX) *Users {
	return NewUsers(db)
}

// Cars возвращает репозиторий автомобилей.
func (m *Manager) Cars(db storage.DBTX) *Cars {
	return NewCars(db)
}

// Orders возвращает репозиторий заказов.
func (m *Manager) Orders(db storage.DBTX) *Orders {
	return NewOrders(db)
}
