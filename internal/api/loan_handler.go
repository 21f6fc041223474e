package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

type LoanHandler struct {
	loanSvc service.LoanService
}

func NewLoanHandler(loanSvc service.LoanService) *LoanHandler {
	return &LoanHandler{loanSvc: loanSvc}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  int64            `json:"client_id"`
		Amount    decimal.Decimal  `json:"amount"`
		Rate      decimal.Decimal  `json:"rate"`
		Term      int              `json:"term"`
		Frequency domain.Frequency `json:"frequency"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	loan, err := h.loanSvc.CreateLoan(r.Context(), actorFrom(r), service.CreateLoanRequest{
		ClientID:  req.ClientID,
		Amount:    req.Amount,
		Rate:      req.Rate,
		Term:      req.Term,
		Frequency: req.Frequency,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, "loan created", loan)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	loan, installments, err := h.loanSvc.GetLoan(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "loan retrieved", map[string]any{
		"loan":         loan,
		"installments": installments,
	})
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := domain.LoanStatus(r.URL.Query().Get("status"))
	loans, total, err := h.loanSvc.ListLoans(r.Context(), status, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "loans retrieved", Paginated{Items: loans, Total: total, Page: page, PageSize: pageSize})
}

func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	loan, err := h.loanSvc.ApproveLoan(r.Context(), actorFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "loan approved", loan)
}

func (h *LoanHandler) Reject(w http.ResponseWriter, r *http.Request) {
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
	loan, err := h.loanSvc.RejectLoan(r.Context(), actorFrom(r), id, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "loan rejected", loan)
}

func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	loan, err := h.loanSvc.DisburseLoan(r.Context(), actorFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "loan disbursed", loan)
}

func (h *LoanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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
	if err := h.loanSvc.CancelLoan(r.Context(), actorFrom(r), id, req.Reason); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "loan cancelled", nil)
}

func (h *LoanHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	history, err := h.loanSvc.GetLoanHistory(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "history retrieved", history)
}
