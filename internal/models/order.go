package models

import "time"

// Order заказ автомобиля из каталога.
type Order struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"car_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderCreate входные данные для создания заказа.
type OrderCreate struct {
	CarID    int64 `json:"car_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}
