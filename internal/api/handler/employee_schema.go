package handler

import "github.com/cagataysunal/payroll-manager/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// tokenRequest binds both the OAuth2 password form and a JSON body.
type tokenRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type createEmployeeRequest struct {
	Email     string   `json:"email"      validate:"required,email"`
	Name      string   `json:"name"       validate:"required"`
	EntryDate string   `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Age       *int     `json:"age"        validate:"omitempty,gte=0"`
	Pay       *float64 `json:"pay"        validate:"required,gte=0"`
	Role      string   `json:"role"`
	Password  string   `json:"password"   validate:"required"`
}

// replaceEmployeeRequest overwrites every mutable field. Email and password
// are not part of it; when a client sends them they are ignored.
type replaceEmployeeRequest struct {
	Name      string   `json:"name"       validate:"required"`
	EntryDate string   `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Age       *int     `json:"age"        validate:"omitempty,gte=0"`
	Pay       *float64 `json:"pay"        validate:"required,gte=0"`
	Role      string   `json:"role"`
}

// updateEmployeeRequest carries only the supplied fields. A null age clears
// it; null for any other field is treated as absent. Email and password are
// ignored like in replaceEmployeeRequest.
type updateEmployeeRequest struct {
	Name      *string               `json:"name"`
	EntryDate *string               `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
	Age       domain.Optional[*int] `json:"age"        swaggertype:"integer"`
	Pay       *float64              `json:"pay"        validate:"omitempty,gte=0"`
	Role      *string               `json:"role"`
}

type employeeResponse struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	EntryDate string  `json:"entry_date"`
	Age       *int    `json:"age"`
	Pay       float64 `json:"pay"`
	Role      string  `json:"role"`
}
