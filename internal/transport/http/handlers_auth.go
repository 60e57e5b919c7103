package httptransport

import (
	"encoding/json"
	"net/http"

	"streamgate/internal/session"
	"streamgate/pkg/domainerrors"
	"streamgate/pkg/requestcontext"
)

type magicLinkRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Token         string             `json:"token"`
	FingerprintID string             `json:"fingerprintId"`
	DeviceInfo    session.DeviceInfo `json:"deviceInfo"`
}

type validateSessionRequest struct {
	UserID        string             `json:"userId"`
	FingerprintID string             `json:"fingerprintId"`
	DeviceInfo    session.DeviceInfo `json:"deviceInfo"`
}

type logoutRequest struct {
	SessionID string `json:"sessionId"`
}

// handleMagicLink starts the passwordless flow.
func (h *Handler) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.magic.Request(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// handleVerify redeems a magic link and immediately runs the device through
// the admission gate, so a successful login always ends in an admission
// decision.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	u, err := h.magic.Verify(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}

	h.admit(w, r, session.AdmitRequest{
		UserID:      u.ID,
		Fingerprint: req.FingerprintID,
		Device:      req.DeviceInfo,
	})
}

// handleValidateSession is the admission boundary a returning client hits on
// every visit.
func (h *Handler) handleValidateSession(w http.ResponseWriter, r *http.Request) {
	var req validateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	h.admit(w, r, session.AdmitRequest{
		UserID:      req.UserID,
		Fingerprint: req.FingerprintID,
		Device:      req.DeviceInfo,
	})
}

// admit runs the gate and renders the three admission outcomes. The cap
// rejection is a normal response, not an HTTP error.
func (h *Handler) admit(w http.ResponseWriter, r *http.Request, req session.AdmitRequest) {
	ctx := r.Context()
	req.IPAddress = requestcontext.ClientIP(ctx)
	req.UserAgent = requestcontext.UserAgent(ctx)

	res, err := h.gate.Admit(ctx, req)
	if err != nil {
		if domainerrors.HasCode(err, domainerrors.CodeBadRequest) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
			return
		}
		writeError(w, err)
		return
	}

	switch {
	case !res.Valid:
		writeJSON(w, http.StatusOK, map[string]any{
			"isValid": false,
			"error":   res.Reason,
		})
	case res.Reused:
		writeJSON(w, http.StatusOK, map[string]any{
			"isValid":         true,
			"existingSession": res.Session,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"isValid": true,
			"session": res.Session,
		})
	}
}

// handleLogout deactivates one session explicitly.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, domainerrors.New(domainerrors.CodeBadRequest, "Missing required fields"))
		return
	}

	if err := h.sessions.Deactivate(r.Context(), req.SessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
