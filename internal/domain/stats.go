package domain

import "time"

// RunStats summarizes one enrichment batch for the presentation layer.
type RunStats struct {
	TotalIPs    int           `json:"total_ips"`
	Successful  int           `json:"successful_lookups"`
	Failed      int           `json:"failed_lookups"`
	FilteredOut int           `json:"filtered_ips"`
	Elapsed     time.Duration `json:"-"`
}

// SuccessRate is the percentage of lookups that produced an error-free record.
func (s RunStats) SuccessRate() float64 {
	if s.TotalIPs == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.TotalIPs) * 100
}

// FilterRate is the percentage of successful records removed by filtering.
func (s RunStats) FilterRate() float64 {
	if s.Successful == 0 {
		return 0
	}
	return float64(s.FilteredOut) / float64(s.Successful) * 100
}
