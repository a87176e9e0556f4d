package dashboard

import (
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/samarthumrao/BrandPulse-AI/internal/sentiment"
)

// Dashboard is everything the views need to render one result
type Dashboard struct {
	Result      *models.AnalysisResult `json:"result"`
	Pie         []Slice                `json:"pie"`
	Platforms   []PlatformStat         `json:"platforms"`
	Feed        []models.Post          `json:"feed"`
	Sources     []models.Source        `json:"sources"`
	VerdictTone string                 `json:"verdictTone"`
	SafetyTone  string                 `json:"safetyTone"`
	CrossCheck  *sentiment.Report      `json:"crossCheck,omitempty"`
}

// Build derives the chart data for a result. crossCheck may be nil.
func Build(result *models.AnalysisResult, crossCheck *sentiment.Report) *Dashboard {
	feed := make([]models.Post, len(result.Posts))
	copy(feed, result.Posts)

	sources := result.Sources
	if sources == nil {
		sources = []models.Source{}
	}

	return &Dashboard{
		Result:      result,
		Pie:         SentimentSlices(result),
		Platforms:   PlatformStats(result.Posts),
		Feed:        feed,
		Sources:     sources,
		VerdictTone: VerdictTone(result.SponsorshipInsights.Verdict),
		SafetyTone:  SafetyTone(result.SponsorshipInsights.BrandSafetyScore),
		CrossCheck:  crossCheck,
	}
}

// VerdictTone picks the badge color for a verdict
func VerdictTone(verdict string) string {
	switch verdict {
	case models.VerdictHighlyRecommended:
		return "green"
	case models.VerdictRecommended:
		return "blue"
	case models.VerdictCaution:
		return "yellow"
	case models.VerdictNotRecommended:
		return "red"
	default:
		return "gray"
	}
}

// SafetyTone picks the color for a brand safety score
func SafetyTone(score float64) string {
	if score >= 80 {
		return "green"
	}
	if score >= 50 {
		return "yellow"
	}
	return "red"
}
