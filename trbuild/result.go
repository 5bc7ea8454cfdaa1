package trbuild

// Result is the outcome of a single remote provisioning operation, as
// reported by the provisioning service.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
