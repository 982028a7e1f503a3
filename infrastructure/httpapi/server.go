// Package httpapi wires the HTTP surface: the login endpoint, the websocket
// upgrade route, and a health probe.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "retro-chat/errors"
	"retro-chat/services"
)

func NewRouter(log *slog.Logger, authSvc services.IAuthService, serveWS http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/api/auth/login", loginHandler(log, authSvc))
	r.Get("/ws", serveWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	User    *loginUser `json:"user,omitempty"`
	Token   string     `json:"token,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type loginUser struct {
	Username        string `json:"username"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

func loginHandler(log *slog.Logger, authSvc services.IAuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, loginResponse{Error: "Username and password required"})
			return
		}

		token, err := authSvc.Login(req.Username, req.Password)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, loginResponse{
				Success: true,
				User:    &loginUser{Username: req.Username, IsAuthenticated: true},
				Token:   string(token),
			})
		case errors.Is(err, apperrors.ErrInvalidCredentials),
			errors.Is(err, apperrors.ErrInvalidPassword):
			writeJSON(w, http.StatusUnauthorized, loginResponse{Error: "Invalid credentials"})
		default:
			log.Error("login failed", "username", req.Username, "err", err)
			writeJSON(w, http.StatusInternalServerError, loginResponse{Error: "Authentication failed"})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body loginResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
