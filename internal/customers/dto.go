package customers

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Kana    string  `json:"kana" validate:"required,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Notes   *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Kana    *string `json:"kana,omitempty" validate:"omitempty,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Notes   *string `json:"notes,omitempty"`
}

type ListCustomersRequest struct {
	Search  *string `json:"search,omitempty"`
	Page    int     `json:"page" validate:"gte=0"`
	PerPage int     `json:"per_page" validate:"gte=0,lte=100"`
}
