package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cagataysunal/payroll-manager/internal/api/metrics"
	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// EmployeeHandler handles HTTP requests for employee operations. Role checks
// happen in the route middleware before any of these methods run.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Create handles POST /employee.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Replays the first successful response for a repeated key"
// @Param        body             body      createEmployeeRequest  true   "Employee details"
// @Success      200              {object}  employeeResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /employee [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		observe("create", domain.ErrValidation)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in, err := toCreateInput(req)
	if err != nil {
		observe("create", err)
		return err
	}

	view, err := h.service.Create(c.Request().Context(), in)
	observe("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(view))
}

// List handles GET /employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   employeeResponse
// @Failure      401  {object}  errorResponse
// @Router       /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	views, err := h.service.List(c.Request().Context())
	observe("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(views))
}

// Get handles GET /employee/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee id"
// @Success      200  {object}  employeeResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /employee/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), id)
	observe("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(view))
}

// Replace handles PUT /employee/:id.
//
// @Summary      Replace an employee
// @Description  Overwrites name, entry_date, age, pay and role. Omitted age becomes null, omitted role becomes EMPLOYEE.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Employee id"
// @Param        body  body      replaceEmployeeRequest  true  "Full employee record"
// @Success      200   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /employee/{id} [put]
func (h *EmployeeHandler) Replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req replaceEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		observe("replace", domain.ErrValidation)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in, err := toReplace(req)
	if err != nil {
		observe("replace", err)
		return err
	}

	view, err := h.service.Replace(c.Request().Context(), id, in)
	observe("replace", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(view))
}

// Update handles PATCH /employee/:id.
//
// @Summary      Update an employee
// @Description  Only the supplied fields change. An explicit null age clears it.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Employee id"
// @Param        body  body      updateEmployeeRequest  true  "Fields to change"
// @Success      200   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /employee/{id} [patch]
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		observe("update", domain.ErrValidation)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	patch, err := toPatch(req)
	if err != nil {
		observe("update", err)
		return err
	}

	view, err := h.service.Update(c.Request().Context(), id, patch)
	observe("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(view))
}

// Delete handles DELETE /employee/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path  int  true  "Employee id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employee/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), id)
	observe("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// observe records the outcome of one employee operation.
func observe(operation string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmployeeExists),
		errors.Is(err, domain.ErrEmployeeNotFound):
		result = metrics.ResultFailure
	default:
		result = metrics.ResultError
	}
	metrics.EmployeeOperationsTotal.WithLabelValues(operation, result).Inc()
}
