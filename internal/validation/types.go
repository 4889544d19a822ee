package validation

// CreateAccountRequest is the payload for POST /requests
type CreateAccountRequest struct {
	CPF   string `json:"cpf" validate:"required,cpf"`          // 11 digits, numbers only
	Name  string `json:"name" validate:"required,min=2"`       // customer full name
	Email string `json:"email" validate:"required,email"`      // notification target
	Phone string `json:"phone" validate:"required,brphone"`    // 10 or 11 digits with DDD
	Brand string `json:"brand,omitempty" validate:"omitempty"` // optional; unknown values fall back to the default brand
}
