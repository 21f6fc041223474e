package api

import (
	"net/http"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

type ClientHandler struct {
	clientSvc service.ClientService
	loanSvc   service.LoanService
}

func NewClientHandler(clientSvc service.ClientService, loanSvc service.LoanService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc, loanSvc: loanSvc}
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var client domain.Client
	if !decodeBody(w, r, &client) {
		return
	}
	if err := h.clientSvc.CreateClient(r.Context(), actorFrom(r), &client); err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, "client created", client)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	client, err := h.clientSvc.GetClient(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "client retrieved", client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	var client domain.Client
	if !decodeBody(w, r, &client) {
		return
	}
	client.ID = id
	if err := h.clientSvc.UpdateClient(r.Context(), actorFrom(r), &client); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "client updated", client)
}

func (h *ClientHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	if err := h.clientSvc.DeactivateClient(r.Context(), actorFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "client deactivated", nil)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	clients, total, err := h.clientSvc.ListClients(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "clients retrieved", Paginated{Items: clients, Total: total, Page: page, PageSize: pageSize})
}

func (h *ClientHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	page, pageSize := pagination(r)
	loans, total, err := h.loanSvc.ListLoansByClient(r.Context(), id, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "loans retrieved", Paginated{Items: loans, Total: total, Page: page, PageSize: pageSize})
}
