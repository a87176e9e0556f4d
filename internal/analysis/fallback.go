package analysis

import "github.com/samarthumrao/BrandPulse-AI/internal/models"

// FallbackSummary is shown when the provider call or parsing fails
const FallbackSummary = "Failed to retrieve data. Please check API Key configuration."

// Fallback returns a complete, zeroed result so callers always have something to render
func Fallback(brandName string) *models.AnalysisResult {
	return &models.AnalysisResult{
		BrandName:    brandName,
		OverallScore: 0,
		TotalPosts:   0,
		Posts:        []models.Post{},
		Summary:      FallbackSummary,
		SponsorshipInsights: models.SponsorshipInsights{
			Verdict:        models.VerdictCaution,
			EngagementRate: "0%",
			AudienceDemographics: models.AudienceDemographics{
				AgeGroup:     "N/A",
				GenderSplit:  "N/A",
				TopInterests: []string{},
			},
			RiskFactors:              []string{"Data Unavailable"},
			ReachEstimation:          "N/A",
			BrandValueImpact:         "N/A",
			FollowerGrowthPrediction: "N/A",
			GrowthTrend:              "Stagnant",
			CompetitorSaturation:     "Low",
			PastCollaborations:       []string{},
		},
		Sources: []models.Source{},
	}
}
