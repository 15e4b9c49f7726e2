package server

import (
	"net/http"
	"strings"

	"winamp7/core/auth"
	"winamp7/logger"
)

// LoginHandler exchanges the owner password for a bearer token.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if h.cfg.OwnerPasswordHash != "" && !auth.VerifyPassword(req.Password, h.cfg.OwnerPasswordHash) {
		logger.Warn("owner login rejected", logger.String("remote", r.RemoteAddr))
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := h.signer.GenerateToken()
	if err != nil {
		logger.Error("generate token", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AuthMiddleware requires an owner bearer token when a password is configured.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.OwnerPasswordHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		if err := h.signer.VerifyOwner(parts[1]); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
