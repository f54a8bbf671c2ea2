package request

type UpdateProfileRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
}
