// Package seed generates mock ad entries for local development.
package seed

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/scoring"
)

var projectNames = []string{"Alpha", "Beta", "Gamma", "Delta", "Omega"}

const (
	minClicks = 10
	maxClicks = 10000
	minCost   = 10.0
	maxCost   = 5000.0
)

// Generate returns n entries drawn from rng. Scores go through scoring.Compute,
// so they are already clamped.
func Generate(rng *rand.Rand, n int) []models.AdEntry {
	sources := scoring.KnownSources()
	entries := make([]models.AdEntry, 0, n)

	for i := 0; i < n; i++ {
		projectID := fmt.Sprintf("PROJ-%d", 1000+rng.Intn(9000))
		source := sources[rng.Intn(len(sources))]
		sourceURL := fmt.Sprintf("http://%s.com/%s", strings.ToLower(source), projectID)
		clicks := int64(minClicks + rng.Intn(maxClicks-minClicks+1))
		cost := decimal.NewFromFloat(minCost + rng.Float64()*(maxCost-minCost)).Round(2).InexactFloat64()

		entries = append(entries, models.AdEntry{
			ProjectName: fmt.Sprintf("Project %s %d", projectNames[rng.Intn(len(projectNames))], 1+rng.Intn(100)),
			ProjectID:   projectID,
			Source:      source,
			SourceURL:   &sourceURL,
			Type:        models.AdTypeOnline,
			ClickCount:  clicks,
			Cost:        cost,
			Score:       scoring.Compute(clicks, cost, source),
		})
	}

	return entries
}
