package benefit

type LimitResponse struct {
	RequestType              string  `json:"request_type"`
	LimitAmount              string  `json:"limit_amount"`
	PeriodType               string  `json:"period_type"`
	SpecialApprovalThreshold *string `json:"special_approval_threshold,omitempty"`
}

type RemainingResponse struct {
	RequestType string `json:"request_type"`
	LimitAmount string `json:"limit_amount"`
	Consumed    string `json:"consumed"`
	Remaining   string `json:"remaining"`
	PeriodType  string `json:"period_type"`
	PeriodStart string `json:"period_start"`
}
