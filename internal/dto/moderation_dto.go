package dto

type CreateReportRequest struct {
	Reason       string `json:"reason"`
	CustomReason string `json:"custom_reason,omitempty"`
}

type ResolveReportRequest struct {
	Action string `json:"action"` // delete | ignore
}
