package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"streamgate/internal/admintoken"
	"streamgate/internal/adminauth"
	"streamgate/internal/device"
	"streamgate/pkg/domainerrors"
)

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminSessionView struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Device       string `json:"device"`
	IPAddress    string `json:"ip_address"`
	CreatedAt    string `json:"created_at"`
	LastActivity string `json:"last_activity"`
}

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	token, err := h.admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminauth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(admintoken.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminauth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAdminSessions lists a user's active sessions with parsed device
// names for the console.
func (h *Handler) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "Missing required fields"))
		return
	}

	sessions, err := h.sessions.FindActiveSessions(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]adminSessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, adminSessionView{
			ID:           s.ID,
			UserID:       s.UserID,
			Device:       device.DisplayName(s.UserAgent),
			IPAddress:    s.IPAddress,
			CreatedAt:    s.CreatedAt.Format(timeFormat),
			LastActivity: s.LastActivity.Format(timeFormat),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": views})
}

func (h *Handler) handleAdminRevokeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := h.sessions.Deactivate(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (h *Handler) handleAdminPayments(w http.ResponseWriter, r *http.Request) {
	records, err := h.payments.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": records})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
