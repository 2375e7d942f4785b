package employees

type CreateEmployeeRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required,oneof=sales manager admin"`
	ManagerID *int64 `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateEmployeeRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=sales manager admin"`
	ManagerID *int64  `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
	// ClearManager removes the hierarchy edge; distinct from leaving
	// ManagerID unset in a partial update.
	ClearManager bool  `json:"clear_manager,omitempty"`
	IsActive     *bool `json:"is_active,omitempty"`
}

type ListEmployeesRequest struct {
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=sales manager admin"`
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Page     int     `json:"page" validate:"gte=0"`
	PerPage  int     `json:"per_page" validate:"gte=0,lte=100"`
}
