package request

type CreateReviewRequest struct {
	Rating      int     `json:"rating" validate:"required,gte=1,lte=5"`
	HasLighting bool    `json:"has_lighting"`
	HasSecurity bool    `json:"has_security"`
	Comment     *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
