// Package models содержит доменные структуры сервиса: пользователя,
// автомобиль каталога и заказ, а также входные DTO для HTTP-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Username и Email уникальны среди всех записей. HashedPassword никогда
// не попадает в JSON-ответы.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserCreate используется для приёма данных регистрации из JSON-запроса.
// Пароль приходит в открытом виде и хэшируется сервисом перед сохранением.
type UserCreate struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UserUpdate частичное обновление пользователя: nil означает "поле не передано".
type UserUpdate struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72,bcryptlen"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Empty сообщает, что в запросе нет ни одного поля для обновления.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil && u.IsActive == nil
}

// Credentials данные для входа по логину и паролю.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
