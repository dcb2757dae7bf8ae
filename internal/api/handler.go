package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/ukpayroll/internal/api/response"
	"github.com/rgehrsitz/ukpayroll/internal/calculation"
	"github.com/rgehrsitz/ukpayroll/internal/config"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

const maxBodyBytes = 4 << 20

// PayrollHandler serves the engine, pay runs and the YTD ledger over HTTP
type PayrollHandler struct {
	engine  *calculation.PayrollEngine
	runner  *payrun.Runner
	taxYear *domain.TaxYearConfiguration
}

// NewPayrollHandler creates a handler. taxYear is used for requests that do not carry
// their own configuration; nil means the built-in default.
func NewPayrollHandler(runner *payrun.Runner, taxYear *domain.TaxYearConfiguration) *PayrollHandler {
	if taxYear == nil {
		taxYear = runner.Engine.GetDefaultTaxYearConfig()
	}
	return &PayrollHandler{engine: runner.Engine, runner: runner, taxYear: taxYear}
}

// CalculationResponse pairs the result with any advisory warnings
type CalculationResponse struct {
	Validation domain.ValidationResult          `json:"validation"`
	Result     *domain.PayrollCalculationResult `json:"result"`
}

func (h *PayrollHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(w, r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	validation := h.engine.ValidateInput(input)
	if !validation.Valid {
		response.ValidationFailed(w, validation.Errors, validation)
		return
	}

	result := h.engine.CalculatePayroll(input)
	response.Success(w, CalculationResponse{Validation: validation, Result: result})
}

func (h *PayrollHandler) Validate(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(w, r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	validation := h.engine.ValidateInput(input)
	message := "Input is valid"
	if !validation.Valid {
		message = fmt.Sprintf("Input has %d validation error(s)", len(validation.Errors))
	}
	response.SuccessWithMessage(w, message, validation)
}

func (h *PayrollHandler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payrun.Request
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err)
		return
	}
	if pt, err := domain.ParsePeriodType(string(req.PeriodType)); err == nil {
		req.PeriodType = pt
	}
	if req.TaxYearConfig == nil {
		req.TaxYearConfig = h.taxYear
	} else if err := config.ValidateTaxYearConfig(req.TaxYearConfig); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.runner.Run(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if err := result.Conflict(); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, fmt.Sprintf("Pay run %s completed", result.RunID), result)
}

func (h *PayrollHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	taxYear := chi.URLParam(r, "taxYear")
	employeeID := chi.URLParam(r, "employeeID")

	ytd, err := h.runner.Store.Get(r.Context(), employeeID, taxYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, ytd)
}

func (h *PayrollHandler) DefaultTaxYear(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.taxYear)
}

func (h *PayrollHandler) decodeInput(w http.ResponseWriter, r *http.Request) (domain.PayrollCalculationInput, error) {
	var input domain.PayrollCalculationInput
	if err := decodeJSON(w, r, &input); err != nil {
		return input, err
	}
	if pt, err := domain.ParsePeriodType(string(input.PeriodType)); err == nil {
		input.PeriodType = pt
	}
	if input.TaxYearConfig == nil {
		input.TaxYearConfig = h.taxYear
	} else if err := config.ValidateTaxYearConfig(input.TaxYearConfig); err != nil {
		return input, err
	}
	return input, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", response.ErrMalformedBody, err)
	}
	return nil
}
