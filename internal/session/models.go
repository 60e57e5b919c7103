package session

import "time"

// MaxActiveSessions is the hard per-user device cap. Once a user holds this
// many active sessions, admission of an unrecognized fingerprint is refused.
const MaxActiveSessions = 3

// RejectionMaxDevices is the caller-facing message for a cap rejection. It is
// a normal business outcome, not a system error.
const RejectionMaxDevices = "Maximum number of active devices reached"

// DeviceInfo is free-form descriptive metadata about the client device. It is
// used for display and audit only and never feeds the admission decision.
type DeviceInfo struct {
	Platform string `json:"platform,omitempty"`
	Browser  string `json:"browser,omitempty"`
	Screen   string `json:"screen,omitempty"`
}

// Session represents one (user, device) binding. The fingerprint is only
// meaningful within one user's session set; it is not globally unique.
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Fingerprint  string     `json:"fingerprint_id"`
	Device       DeviceInfo `json:"device_info"`
	IPAddress    string     `json:"ip_address"`
	UserAgent    string     `json:"user_agent"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
}
