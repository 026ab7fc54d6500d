package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	hrapp "github.com/fruitflow/backend/internal/application/hr"
)

// EmployeeHandler handles employee and payroll endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *hrapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *hrapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create creates a new employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req hrapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// Get returns one employee with withdrawals
func (h *EmployeeHandler) Get(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), ownerID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// List lists employees with pagination and search
func (h *EmployeeHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter hrapp.EmployeeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}

// Update edits an employee
func (h *EmployeeHandler) Update(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req hrapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), ownerID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Delete removes an employee with their withdrawals
func (h *EmployeeHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), ownerID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddWithdrawal records a payroll withdrawal
func (h *EmployeeHandler) AddWithdrawal(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req hrapp.AddWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	employee, err := h.employeeService.AddWithdrawal(c.Request.Context(), ownerID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// RemoveWithdrawal deletes a payroll withdrawal
func (h *EmployeeHandler) RemoveWithdrawal(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	withdrawalID, err := parseUUIDParam(c, "withdrawal_id")
	if err != nil {
		h.BadRequest(c, "Invalid withdrawal ID")
		return
	}

	if err := h.employeeService.RemoveWithdrawal(c.Request.Context(), ownerID, employeeID, withdrawalID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Payroll summarizes an employee's month: salary, withdrawals, remainder
func (h *EmployeeHandler) Payroll(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	now := time.Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if month < 1 || month > 12 {
		h.BadRequest(c, "Month must be between 1 and 12")
		return
	}

	payroll, err := h.employeeService.Payroll(c.Request.Context(), ownerID, employeeID, year, time.Month(month))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payroll)
}
