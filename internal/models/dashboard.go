package models

// DashboardStats is computed per request from the stored entries and never persisted.
type DashboardStats struct {
	TotalProjects int64   `json:"total_projects"`
	TotalClicks   int64   `json:"total_clicks"`
	TotalCost     float64 `json:"total_cost"`
	AverageScore  float64 `json:"average_score"`
}
