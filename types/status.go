package types

import "time"

// ProviderStatus reports the outcome of one (provider, account type)
// collection task. Failures never abort the run; they surface here and in
// the logs instead.
type ProviderStatus struct {
	Provider    string        `json:"provider"`
	AccountType string        `json:"account_type"`
	Clusters    int           `json:"clusters"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// OK reports whether the task completed without a fault.
func (s ProviderStatus) OK() bool {
	return s.Error == ""
}
