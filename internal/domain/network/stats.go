package network

import "math"

// CustomerStats aggregates customers by onboarding status
type CustomerStats struct {
	Total           int64   `json:"total"`
	Pending         int64   `json:"pendientes"`
	Assigned        int64   `json:"asignados"`
	Installed       int64   `json:"instalados"`
	Rejected        int64   `json:"rechazados"`
	Cancelled       int64   `json:"cancelados"`
	AssignedPercent float64 `json:"porcentaje_asignados"`
}

// NewCustomerStats builds statistics from per-status counts
func NewCustomerStats(counts map[CustomerStatus]int64) CustomerStats {
	s := CustomerStats{
		Pending:   counts[CustomerStatusPending],
		Assigned:  counts[CustomerStatusAssigned],
		Installed: counts[CustomerStatusInstalled],
		Rejected:  counts[CustomerStatusRejected],
		Cancelled: counts[CustomerStatusCancelled],
	}
	for _, n := range counts {
		s.Total += n
	}
	s.AssignedPercent = Percent(s.Assigned+s.Installed, s.Total)
	return s
}

// Percent returns part/total*100 rounded to 2 decimals, or 0 when total is 0
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
