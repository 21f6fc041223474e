package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"credicaja-backend/internal/security"
)

// Handlers groups every endpoint handler the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Client       *ClientHandler
	Loan         *LoanHandler
	Payment      *PaymentHandler
	Reschedule   *RescheduleHandler
	CashSession  *CashSessionHandler
	Notification *NotificationHandler
}

// NewRouter wires all routes under /api/v1. Everything except login and the
// health check requires a valid access token.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	root := mux.NewRouter()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	v1 := root.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	authed := v1.NewRoute().Subrouter()
	authed.Use(Authenticate(tokens))

	// Users
	authed.HandleFunc("/users", h.Auth.CreateUser).Methods(http.MethodPost)
	authed.HandleFunc("/users", h.Auth.ListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id:[0-9]+}/active", h.Auth.SetUserActive).Methods(http.MethodPut)

	// Clients
	authed.HandleFunc("/clients", h.Client.Create).Methods(http.MethodPost)
	authed.HandleFunc("/clients", h.Client.List).Methods(http.MethodGet)
	authed.HandleFunc("/clients/{id:[0-9]+}", h.Client.Get).Methods(http.MethodGet)
	authed.HandleFunc("/clients/{id:[0-9]+}", h.Client.Update).Methods(http.MethodPut)
	authed.HandleFunc("/clients/{id:[0-9]+}", h.Client.Deactivate).Methods(http.MethodDelete)
	authed.HandleFunc("/clients/{id:[0-9]+}/loans", h.Client.ListLoans).Methods(http.MethodGet)

	// Loans
	authed.HandleFunc("/loans", h.Loan.Create).Methods(http.MethodPost)
	authed.HandleFunc("/loans", h.Loan.List).Methods(http.MethodGet)
	authed.HandleFunc("/loans/{id:[0-9]+}", h.Loan.Get).Methods(http.MethodGet)
	authed.HandleFunc("/loans/{id:[0-9]+}/approve", h.Loan.Approve).Methods(http.MethodPost)
	authed.HandleFunc("/loans/{id:[0-9]+}/reject", h.Loan.Reject).Methods(http.MethodPost)
	authed.HandleFunc("/loans/{id:[0-9]+}/disburse", h.Loan.Disburse).Methods(http.MethodPost)
	authed.HandleFunc("/loans/{id:[0-9]+}/cancel", h.Loan.Cancel).Methods(http.MethodPost)
	authed.HandleFunc("/loans/{id:[0-9]+}/history", h.Loan.History).Methods(http.MethodGet)

	// Payments
	authed.HandleFunc("/loans/{id:[0-9]+}/payments", h.Payment.Record).Methods(http.MethodPost)
	authed.HandleFunc("/loans/{id:[0-9]+}/payments", h.Payment.ListByLoan).Methods(http.MethodGet)
	authed.HandleFunc("/payments/{id:[0-9]+}", h.Payment.Get).Methods(http.MethodGet)
	authed.HandleFunc("/payments/{id:[0-9]+}", h.Payment.Delete).Methods(http.MethodDelete)

	// Reschedules
	authed.HandleFunc("/loans/{id:[0-9]+}/reschedules", h.Reschedule.Request).Methods(http.MethodPost)
	authed.HandleFunc("/loans/{id:[0-9]+}/reschedules", h.Reschedule.ListByLoan).Methods(http.MethodGet)
	authed.HandleFunc("/reschedules/{id:[0-9]+}/approve", h.Reschedule.Approve).Methods(http.MethodPost)
	authed.HandleFunc("/reschedules/{id:[0-9]+}/reject", h.Reschedule.Reject).Methods(http.MethodPost)

	// Cash sessions
	authed.HandleFunc("/cash-sessions", h.CashSession.Open).Methods(http.MethodPost)
	authed.HandleFunc("/cash-sessions", h.CashSession.List).Methods(http.MethodGet)
	authed.HandleFunc("/cash-sessions/{id:[0-9]+}", h.CashSession.Get).Methods(http.MethodGet)
	authed.HandleFunc("/cash-sessions/{id:[0-9]+}/close", h.CashSession.Close).Methods(http.MethodPost)

	// Notifications
	authed.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	return root
}
