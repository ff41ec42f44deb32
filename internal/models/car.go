package models

// Car позиция каталога автомобилей. Все поля обязательны.
type Car struct {
	ID               int64   `json:"id"`
	Brand            string  `json:"brand" validate:"required"`
	Model            string  `json:"model" validate:"required"`
	Year             int     `json:"year" validate:"required,gte=1886,lte=2100"`
	BodyType         string  `json:"body_type" validate:"required"`
	EngineType       string  `json:"engine_type" validate:"required"`
	EngineSizeLiters float64 `json:"engine_size_liters" validate:"gte=0"`
	HorsePower       int     `json:"horse_power" validate:"gte=0"`
	Transmission     string  `json:"transmission" validate:"required"`
	FuelType         string  `json:"fuel_type" validate:"required"`
	MileageKm        int     `json:"mileage_km" validate:"gte=0"`
	TopSpeedKmh      int     `json:"top_speed_kmh" validate:"gte=0"`
	Color            string  `json:"color" validate:"required"`
	Features         string  `json:"features"`
	PriceUSD         float64 `json:"price_usd" validate:"required,gt=0"`
	DiscountPercent  float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	NumInStock       int     `json:"num_in_stock" validate:"gte=0"`
	Description      string  `json:"description"`
}
