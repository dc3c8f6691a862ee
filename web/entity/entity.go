// Package entity defines the JSON shapes exchanged with the web UI.
package entity

// ErrorResponse is the uniform failure body. Details is optional
// human-readable context; no internal error detail beyond it ever crosses
// the boundary.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SetupStatus reports whether the installation still needs its one-time
// admin bootstrap.
type SetupStatus struct {
	RequiresAdminSetup bool `json:"requiresAdminSetup"`
}

// BootstrapResult is the success body of the admin bootstrap call.
type BootstrapResult struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

// EventCreated is the success body of event provisioning.
type EventCreated struct {
	EventCode   string `json:"eventCode"`
	EventDbPath string `json:"eventDbPath"`
}

// LoginResult is the success body of a login call.
type LoginResult struct {
	Token   string `json:"token"`
	UserId  int64  `json:"userId"`
	Expires string `json:"expires"`
}
