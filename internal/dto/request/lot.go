package request

type CreateLotRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Address      string  `json:"address" validate:"required,max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	Latitude     float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" validate:"gte=-180,lte=180"`
	PricePerHour float64 `json:"price_per_hour" validate:"gte=0"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	CameraURL    *string `json:"camera_url,omitempty" validate:"omitempty,url"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateLotRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Address      string  `json:"address" validate:"required,max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	Latitude     float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" validate:"gte=-180,lte=180"`
	PricePerHour float64 `json:"price_per_hour" validate:"gte=0"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	CameraURL    *string `json:"camera_url,omitempty" validate:"omitempty,url"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive     *bool   `json:"is_active,omitempty"`
}
