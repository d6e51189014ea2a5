package types

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// SuccessEnvelope is the wire shape shared with the core marketplace API.
type SuccessEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// ErrorEnvelope carries a normalized failure to the caller. Status is "fail"
// for caller mistakes and "error" for server-side trouble, matching the
// upstream convention.
type ErrorEnvelope struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	Details    any    `json:"details,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}
