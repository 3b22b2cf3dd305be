package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Employee is the sole persisted entity. PasswordHash never leaves the core.
type Employee struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	EntryDate    time.Time `json:"entry_date"`
	Age          *int      `json:"age"`
	Pay          float64   `json:"pay"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks the field invariants of a record about to be persisted.
// The password hash is the caller's concern.
func (e *Employee) Validate() error {
	switch {
	case strings.TrimSpace(e.Email) == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case !validEmail(e.Email):
		return fmt.Errorf("%w: email is not a valid address", ErrValidation)
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case e.EntryDate.IsZero():
		return fmt.Errorf("%w: entry_date is required", ErrValidation)
	case math.IsNaN(e.Pay) || math.IsInf(e.Pay, 0):
		return fmt.Errorf("%w: pay must be a finite number", ErrValidation)
	case e.Pay < 0:
		return fmt.Errorf("%w: pay must be greater than or equal to 0", ErrValidation)
	case e.Age != nil && *e.Age < 0:
		return fmt.Errorf("%w: age must be greater than or equal to 0", ErrValidation)
	case !e.Role.Valid():
		return fmt.Errorf("%w: role must be one of ADMIN, MANAGER, EMPLOYEE", ErrValidation)
	}
	return nil
}

// validEmail accepts a bare addr-spec only, no display name or brackets.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// TruncateDate drops the clock part of t, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Optional carries a value together with whether it was supplied at all.
// It lets a patch tell "absent" apart from an explicit JSON null.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON marks the field as supplied; null decodes to the zero value.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// EmployeeReplace is a full overwrite of the mutable fields. Age nil resets
// it to null; an empty Role resets it to RoleEmployee.
type EmployeeReplace struct {
	Name      string
	EntryDate time.Time
	Age       *int
	Pay       float64
	Role      Role
}

// Apply overwrites every mutable field of e.
func (r EmployeeReplace) Apply(e *Employee) {
	e.Name = r.Name
	e.EntryDate = TruncateDate(r.EntryDate)
	e.Age = r.Age
	e.Pay = r.Pay
	e.Role = r.Role
	if e.Role == "" {
		e.Role = RoleEmployee
	}
}

// EmployeePatch overwrites only the supplied fields.
type EmployeePatch struct {
	Name      *string
	EntryDate *time.Time
	Age       Optional[*int]
	Pay       *float64
	Role      *Role
}

// Empty reports whether the patch carries no field at all.
func (p EmployeePatch) Empty() bool {
	return p.Name == nil && p.EntryDate == nil && !p.Age.Set && p.Pay == nil && p.Role == nil
}

// Apply copies the supplied fields into e and leaves the rest untouched.
func (p EmployeePatch) Apply(e *Employee) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.EntryDate != nil {
		e.EntryDate = TruncateDate(*p.EntryDate)
	}
	if p.Age.Set {
		e.Age = p.Age.Value
	}
	if p.Pay != nil {
		e.Pay = *p.Pay
	}
	if p.Role != nil {
		e.Role = *p.Role
	}
}
