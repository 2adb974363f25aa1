package approval

type VerifyRequest struct {
	PIN   string `json:"pin"`
	Scope string `json:"scope,omitempty"`
}

type VerifyResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message,omitempty"`
	ApproverID string `json:"approver_id"`
}
