package handler

import (
	"fmt"
	"time"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createEmployeeRequest) (ports.CreateEmployeeInput, error) {
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		return ports.CreateEmployeeInput{}, err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return ports.CreateEmployeeInput{}, err
	}

	return ports.CreateEmployeeInput{
		Email:     req.Email,
		Name:      req.Name,
		EntryDate: entryDate,
		Age:       req.Age,
		Pay:       *req.Pay,
		Role:      role,
		Password:  req.Password,
	}, nil
}

func toReplace(req replaceEmployeeRequest) (domain.EmployeeReplace, error) {
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		return domain.EmployeeReplace{}, err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return domain.EmployeeReplace{}, err
	}

	return domain.EmployeeReplace{
		Name:      req.Name,
		EntryDate: entryDate,
		Age:       req.Age,
		Pay:       *req.Pay,
		Role:      role,
	}, nil
}

func toPatch(req updateEmployeeRequest) (domain.EmployeePatch, error) {
	patch := domain.EmployeePatch{
		Name: req.Name,
		Age:  req.Age,
		Pay:  req.Pay,
	}

	if req.EntryDate != nil {
		entryDate, err := parseDate(*req.EntryDate)
		if err != nil {
			return domain.EmployeePatch{}, err
		}
		patch.EntryDate = &entryDate
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return domain.EmployeePatch{}, err
		}
		patch.Role = &role
	}
	return patch, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: entry_date must be a YYYY-MM-DD date", domain.ErrValidation)
	}
	return t, nil
}

// --- Service result → HTTP response ---

func toEmployeeResponse(v *ports.EmployeeView) employeeResponse {
	return employeeResponse{
		ID:        v.ID,
		Email:     v.Email,
		Name:      v.Name,
		EntryDate: v.EntryDate.Format(domain.DateLayout),
		Age:       v.Age,
		Pay:       v.Pay,
		Role:      string(v.Role),
	}
}

func toEmployeeResponses(views []*ports.EmployeeView) []employeeResponse {
	out := make([]employeeResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toEmployeeResponse(v))
	}
	return out
}
