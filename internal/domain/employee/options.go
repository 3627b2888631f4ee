package employee

// CreateRequest defines employee creation inputs. Empty Role, Status and
// Image take their defaults.
type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
	Role     Role   `json:"role"`
	Status   Status `json:"status"`
	Image    string `json:"img"`
}

// UpdateRequest changes the non-nil fields of an employee.
type UpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Position *string `json:"position"`
	Role     *Role   `json:"role"`
	Status   *Status `json:"status"`
	Image    *string `json:"img"`
}

type form struct {
	Name   string `json:"name" validate:"notblank"`
	Email  string `json:"email" validate:"notblank,contains=@"`
	Role   Role   `json:"role" validate:"employee_role"`
	Status Status `json:"status" validate:"employee_status"`
}
