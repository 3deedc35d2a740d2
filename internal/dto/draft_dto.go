package dto

// AIDraftRequest carries the raw bullet points handed to the drafting
// assistant.
type AIDraftRequest struct {
	Notes string `json:"notes" validate:"required"`
}

// AIDraftResponse returns the generated report text.
type AIDraftResponse struct {
	Description string `json:"description"`
	Model       string `json:"model,omitempty"`
}
