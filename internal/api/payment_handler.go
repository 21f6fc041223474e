package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	var req struct {
		Amount   decimal.Decimal `json:"amount"`
		Discount decimal.Decimal `json:"discount"`
		Date     *time.Time      `json:"date,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	recordReq := service.RecordPaymentRequest{
		LoanID:   loanID,
		Amount:   req.Amount,
		Discount: req.Discount,
	}
	if req.Date != nil {
		recordReq.Date = *req.Date
	}

	result, err := h.paymentSvc.RecordPayment(r.Context(), actorFrom(r), recordReq)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, "payment recorded", map[string]any{
		"payment":   result.Payment,
		"remainder": result.Remainder,
		"loan_paid": result.LoanPaid,
	})
}

func (h *PaymentHandler) ListByLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	payments, err := h.paymentSvc.ListPayments(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "payments retrieved", payments)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	payment, allocations, err := h.paymentSvc.GetPayment(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "payment retrieved", map[string]any{
		"payment":     payment,
		"allocations": allocations,
	})
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	if err := h.paymentSvc.DeletePayment(r.Context(), actorFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "payment deleted", nil)
}
