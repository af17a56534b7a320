package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/paycore/payroll-engine-go/internal/handler/http/response"
	payrollservice "github.com/paycore/payroll-engine-go/internal/service/payroll"
)

type PayrollHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
	AutomationStatus(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	RecordPayment(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)

	GetCutoffDay(w http.ResponseWriter, r *http.Request)
	UpdateCutoffDay(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.Service
	runner         payroll.BatchRunner
	status         *payrollservice.StatusStore
}

func NewPayrollHandler(payrollService payroll.Service, runner payroll.BatchRunner, status *payrollservice.StatusStore) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService: payrollService,
		runner:         runner,
		status:         status,
	}
}

// Run implements PayrollHandler. Batch cycles report per-pair failures
// inside the summary and still return 200; only run-level failures
// (bad period, unknown employee) become error responses.
func (h *PayrollHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req payroll.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.runner.Run(ctx, payroll.RunOptions{
		Month:      req.Month,
		Year:       req.Year,
		EmployeeID: req.EmployeeID,
		DryRun:     req.DryRun,
		Reason:     "manual",
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// AutomationStatus implements PayrollHandler.
func (h *PayrollHandlerImpl) AutomationStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.status.Snapshot())
}

// List implements PayrollHandler.
func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := payroll.ListFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid month filter", nil)
			return
		}
		filter.Month = month
	}
	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid year filter", nil)
			return
		}
		filter.Year = year
	}

	records, err := h.payrollService.List(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Get implements PayrollHandler.
func (h *PayrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payrollID := chi.URLParam(r, "id")
	if payrollID == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	view, err := h.payrollService.Get(ctx, payrollID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view.ToResponse())
}

// RecordPayment implements PayrollHandler.
func (h *PayrollHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payrollID := chi.URLParam(r, "id")
	if payrollID == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	var req payroll.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := req.PaidBy
	if actor == "" {
		actor = "api"
	}

	view, err := h.payrollService.RecordPayment(ctx, payrollID, req.Amount, req.Method, req.Reference, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment recorded", view.ToResponse())
}

// SetStatus implements PayrollHandler.
func (h *PayrollHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payrollID := chi.URLParam(r, "id")
	if payrollID == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	var req payroll.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := h.payrollService.SetStatus(ctx, payrollID, payroll.Status(req.Status), req.Actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view.ToResponse())
}

// GetCutoffDay implements PayrollHandler.
func (h *PayrollHandlerImpl) GetCutoffDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	day, err := h.payrollService.CutoffDay(ctx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"salary_cutoff_day": day})
}

// UpdateCutoffDay implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdateCutoffDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req payroll.UpdateCutoffDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	settings, err := h.payrollService.SetCutoffDay(ctx, req.SalaryCutoffDay)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cutoff day updated", map[string]interface{}{
		"salary_cutoff_day": settings.SalaryCutoffDay,
		"updated_at":        settings.UpdatedAt,
	})
}
