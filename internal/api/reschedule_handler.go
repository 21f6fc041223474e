package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

type RescheduleHandler struct {
	rescheduleSvc service.RescheduleService
}

func NewRescheduleHandler(rescheduleSvc service.RescheduleService) *RescheduleHandler {
	return &RescheduleHandler{rescheduleSvc: rescheduleSvc}
}

func (h *RescheduleHandler) Request(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	var req struct {
		Amount    decimal.Decimal  `json:"amount"`
		Rate      decimal.Decimal  `json:"rate"`
		Term      int              `json:"term"`
		Frequency domain.Frequency `json:"frequency"`
		Reason    string           `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	reschedule, err := h.rescheduleSvc.RequestReschedule(r.Context(), actorFrom(r), service.RescheduleRequest{
		LoanID:    loanID,
		Amount:    req.Amount,
		Rate:      req.Rate,
		Term:      req.Term,
		Frequency: req.Frequency,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, "reschedule requested", reschedule)
}

func (h *RescheduleHandler) ListByLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	reschedules, err := h.rescheduleSvc.ListReschedules(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "reschedules retrieved", reschedules)
}

func (h *RescheduleHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	reschedule, err := h.rescheduleSvc.ApproveReschedule(r.Context(), actorFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "reschedule applied", reschedule)
}

func (h *RescheduleHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	reschedule, err := h.rescheduleSvc.RejectReschedule(r.Context(), actorFrom(r), id, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "reschedule rejected", reschedule)
}
