package hemis

import "encoding/json"

// Credentials identify the one configured principal.
type Credentials struct {
	BaseURL  string // normalized to end with "/"
	Login    string
	Password string
}

// Envelope is the {success, data} wrapper every HEMIS response carries.
// Data stays raw: payload shapes vary per endpoint and are passed through
// to the caller, not modeled here.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
	Code    int             `json:"code,omitempty"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// loginData is the successful login payload. ExpiresAt is unix seconds;
// zero means the upstream did not state an expiry.
type loginData struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}
