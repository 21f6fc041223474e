package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

type CashSessionHandler struct {
	sessionSvc service.CashSessionService
}

func NewCashSessionHandler(sessionSvc service.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{sessionSvc: sessionSvc}
}

func (h *CashSessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Opening decimal.Decimal `json:"opening"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := h.sessionSvc.OpenSession(r.Context(), actorFrom(r), req.Opening)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, "cash session opened", session)
}

func (h *CashSessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	var req struct {
		Counted decimal.Decimal `json:"counted"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := h.sessionSvc.CloseSession(r.Context(), actorFrom(r), id, req.Counted)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "cash session closed", session)
}

func (h *CashSessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	session, err := h.sessionSvc.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "cash session retrieved", session)
}

func (h *CashSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	sessions, total, err := h.sessionSvc.ListSessions(r.Context(), actorFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "cash sessions retrieved", Paginated{Items: sessions, Total: total, Page: page, PageSize: pageSize})
}
