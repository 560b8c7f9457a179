package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/adspay/console/envelope"
	"github.com/rs/zerolog/log"
)

// The JSON API mirrors the dashboard screens: every endpoint calls the
// backend through the authenticated gateway client and returns the
// backend's payload, with application-level rejections surfaced verbatim.

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.dashboard.Profile(r.Context())
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) ListAdminsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admins, err := s.dashboard.ListAdmins(r.Context())
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, admins)
	}
}

func (s *Server) CreateAdminHandler() http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, "invalid_request", "malformed JSON body", http.StatusBadRequest)
			return
		}
		message, err := s.dashboard.CreateAdmin(r.Context(), body.Username, body.Email, body.Password)
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": message})
	}
}

func (s *Server) UpdateAdminHandler() http.HandlerFunc {
	type request struct {
		Email string `json:"email"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, "invalid_request", "malformed JSON body", http.StatusBadRequest)
			return
		}
		message, err := s.dashboard.UpdateAdmin(r.Context(), r.PathValue("username"), body.Email)
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

func (s *Server) ActivateAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message, err := s.dashboard.ActivateAdmin(r.Context(), r.PathValue("username"))
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

func (s *Server) DeactivateAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message, err := s.dashboard.DeactivateAdmin(r.Context(), r.PathValue("username"))
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

func (s *Server) ResetAdminPasswordHandler() http.HandlerFunc {
	type request struct {
		NewPassword string `json:"newPassword"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, "invalid_request", "malformed JSON body", http.StatusBadRequest)
			return
		}
		message, err := s.dashboard.ResetAdminPassword(r.Context(), r.PathValue("username"), body.NewPassword)
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

func (s *Server) ListEndUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.dashboard.ListEndUsers(r.Context())
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func (s *Server) EndUserDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSONError(w, "invalid_request", "user id must be an integer", http.StatusBadRequest)
			return
		}
		detail, err := s.dashboard.EndUserDetail(r.Context(), id)
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func (s *Server) OperationalBalanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.dashboard.OperationalBalance(r.Context())
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, balance)
	}
}

func (s *Server) OperationalHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := s.dashboard.OperationalHistory(r.Context())
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func (s *Server) EscrowBalanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.dashboard.EscrowBalance(r.Context())
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, balance)
	}
}

func (s *Server) EscrowHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := s.dashboard.EscrowHistory(r.Context())
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func (s *Server) ListTransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 0)
		size := queryInt(r, "size", 10)
		result, err := s.dashboard.ListTransactions(r.Context(), page, size)
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) TransactionDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := s.dashboard.TransactionDetail(r.Context(), r.PathValue("code"))
		if err != nil {
			writeProxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func (s *Server) ExportTransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		if err := s.dashboard.ExportTransactionsCSV(r.Context(), w, queryInt(r, "size", 100)); err != nil {
			// Headers may already be out; log rather than rewrite the status.
			log.Err(err).Msg("transaction CSV export failed")
		}
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}

// writeProxyError maps a backend failure onto this API: an envelope-level
// rejection keeps its code and message, anything else is a bad gateway.
func writeProxyError(w http.ResponseWriter, err error) {
	var envErr *envelope.Error
	if errors.As(err, &envErr) {
		writeJSONError(w, envErr.RespCode, envErr.RespMessage, http.StatusUnprocessableEntity)
		return
	}
	log.Err(err).Msg("backend proxy call failed")
	writeJSONError(w, "upstream_error", "backend request failed", http.StatusBadGateway)
}
