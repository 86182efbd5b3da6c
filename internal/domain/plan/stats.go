package plan

import "math"

// StatusCount is the number of subscribers in a status, split by coverage
type StatusCount struct {
	Status          SubscriberStatus `json:"estado"`
	Total           int64            `json:"total"`
	WithCoverage    int64            `json:"con_cobertura"`
	WithoutCoverage int64            `json:"sin_cobertura"`
}

// KeyCount is a generic grouped count
type KeyCount struct {
	Key   string `json:"clave"`
	Total int64  `json:"total"`
}

// SubscriberSummary holds the headline figures
type SubscriberSummary struct {
	Total         int64   `json:"total_clientes"`
	Active        int64   `json:"total_activos"`
	Pending       int64   `json:"total_pendientes"`
	Suspended     int64   `json:"total_suspendidos"`
	ActivePercent float64 `json:"porcentaje_activos"`
}

// SubscriberStats is the full statistics payload
type SubscriberStats struct {
	Summary    SubscriberSummary `json:"resumen"`
	ByStatus   []StatusCount     `json:"por_estado"`
	ByType     []KeyCount        `json:"por_tipo"`
	ByCoverage []KeyCount        `json:"por_cobertura"`
	TopZones   []KeyCount        `json:"top_zonas"`
}

// TopZonesLimit is the number of zones reported in statistics
const TopZonesLimit = 5

// NewSubscriberSummary derives the summary from per-status counts
func NewSubscriberSummary(byStatus []StatusCount) SubscriberSummary {
	var s SubscriberSummary
	for _, sc := range byStatus {
		s.Total += sc.Total
		switch {
		case sc.Status == SubscriberStatusActive:
			s.Active += sc.Total
		case sc.Status == SubscriberStatusSuspended:
			s.Suspended += sc.Total
		case sc.Status.IsPending():
			s.Pending += sc.Total
		}
	}
	if s.Total > 0 {
		s.ActivePercent = math.Round(float64(s.Active)/float64(s.Total)*10000) / 100
	}
	return s
}
