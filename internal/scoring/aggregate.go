package scoring

import (
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
)

// Aggregate reduces entries into dashboard totals. An empty slice yields all zeros.
func Aggregate(entries []models.AdEntry) models.DashboardStats {
	stats := models.DashboardStats{
		TotalProjects: int64(len(entries)),
	}

	var scoreSum float64
	for _, e := range entries {
		stats.TotalClicks += e.ClickCount
		stats.TotalCost += e.Cost
		scoreSum += e.Score
	}

	if stats.TotalProjects > 0 {
		stats.AverageScore = scoreSum / float64(stats.TotalProjects)
	}

	return stats
}
