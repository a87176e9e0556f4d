package dashboard

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/samarthumrao/BrandPulse-AI/internal/analysis"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformStats(t *testing.T) {
	posts := []models.Post{
		{ID: "1", Platform: "A", Sentiment: models.SentimentPositive},
		{ID: "2", Platform: "B", Sentiment: models.SentimentNeutral},
		{ID: "3", Platform: "A", Sentiment: models.SentimentPositive},
		{ID: "4", Platform: "A", Sentiment: models.SentimentNegative},
		{ID: "5", Platform: "B", Sentiment: models.SentimentNeutral},
		{ID: "6", Platform: "A", Sentiment: models.SentimentPositive},
	}

	stats := PlatformStats(posts)

	assert.Equal(t, []PlatformStat{
		{Name: "A", Posts: 4, Sentiment: 75},
		{Name: "B", Posts: 2, Sentiment: 50},
	}, stats)
}

func TestPlatformStats_OrderAndRounding(t *testing.T) {
	posts := []models.Post{
		{Platform: models.PlatformReddit, Sentiment: models.SentimentNegative},
		{Platform: models.PlatformYouTube, Sentiment: models.SentimentPositive},
		{Platform: models.PlatformReddit, Sentiment: models.SentimentNeutral},
		{Platform: models.PlatformReddit, Sentiment: models.SentimentNeutral},
		{Platform: models.PlatformYouTube, Sentiment: "Unknown"},
		{Platform: models.PlatformYouTube, Sentiment: models.SentimentNegative},
	}

	stats := PlatformStats(posts)

	require.Len(t, stats, 2)
	assert.Equal(t, models.PlatformReddit, stats[0].Name)
	assert.Equal(t, 33, stats[0].Sentiment) // 100/3
	assert.Equal(t, models.PlatformYouTube, stats[1].Name)
	assert.Equal(t, 50, stats[1].Sentiment) // unknown label scores as neutral
}

func TestPlatformStats_HalfRoundsUp(t *testing.T) {
	posts := []models.Post{
		{Platform: models.PlatformNews, Sentiment: models.SentimentPositive},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNeutral},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNeutral},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNegative},
		{Platform: models.PlatformNews, Sentiment: models.SentimentPositive},
		{Platform: models.PlatformNews, Sentiment: models.SentimentPositive},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNegative},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNeutral},
	}

	// (300 + 150) / 8 = 56.25
	assert.Equal(t, 56, PlatformStats(posts)[0].Sentiment)

	two := []models.Post{
		{Platform: models.PlatformNews, Sentiment: models.SentimentPositive},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNeutral},
	}
	assert.Equal(t, 75, PlatformStats(two)[0].Sentiment)

	four := []models.Post{
		{Platform: models.PlatformNews, Sentiment: models.SentimentNeutral},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNeutral},
		{Platform: models.PlatformNews, Sentiment: models.SentimentNeutral},
		{Platform: models.PlatformNews, Sentiment: models.SentimentPositive},
	}
	// 250 / 4 = 62.5
	assert.Equal(t, 63, PlatformStats(four)[0].Sentiment)
}

func TestPlatformStats_Empty(t *testing.T) {
	stats := PlatformStats(nil)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestSentimentSlices(t *testing.T) {
	result := &models.AnalysisResult{
		TotalPosts:            8,
		SentimentDistribution: models.SentimentDistribution{Positive: 5, Neutral: 2, Negative: 1},
	}

	slices := SentimentSlices(result)

	require.Len(t, slices, 3)
	assert.Equal(t, "Positive", slices[0].Name)
	assert.Equal(t, 5.0, slices[0].Value)
	assert.Equal(t, 62.5, slices[0].Percent)
	assert.Equal(t, "#eab308", slices[1].Color)
	assert.Equal(t, 12.5, slices[2].Percent)
}

func TestSentimentSlices_ZeroTotal(t *testing.T) {
	slices := SentimentSlices(analysis.Fallback("x"))
	for _, s := range slices {
		assert.Equal(t, 0.0, s.Value)
		assert.Equal(t, float64(0), s.Percent)
	}
}

func TestTones(t *testing.T) {
	assert.Equal(t, "green", VerdictTone(models.VerdictHighlyRecommended))
	assert.Equal(t, "blue", VerdictTone(models.VerdictRecommended))
	assert.Equal(t, "yellow", VerdictTone(models.VerdictCaution))
	assert.Equal(t, "red", VerdictTone(models.VerdictNotRecommended))
	assert.Equal(t, "gray", VerdictTone("Maybe"))

	assert.Equal(t, "green", SafetyTone(80))
	assert.Equal(t, "yellow", SafetyTone(79.9))
	assert.Equal(t, "yellow", SafetyTone(50))
	assert.Equal(t, "red", SafetyTone(10))
}

// twelve posts over three platforms, in the shape the provider returns
func mrBeastPayload(t *testing.T) string {
	t.Helper()

	labels := []string{"YouTube", "reddit thread", "Twitter/X"}
	sentiments := []models.Sentiment{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative}

	var posts []map[string]interface{}
	for i := 0; i < 12; i++ {
		posts = append(posts, map[string]interface{}{
			"id":        fmt.Sprintf("post-%02d", i),
			"content":   fmt.Sprintf("snippet %d", i),
			"platform":  labels[i%3],
			"sentiment": sentiments[(i/3)%3],
			"author":    "someone",
			"timestamp": "today",
			"likes":     i * 10,
		})
	}

	payload := map[string]interface{}{
		"brandName":             "MrBeast",
		"overallScore":          81,
		"totalPosts":            12,
		"summary":               "Huge reach, mostly positive.",
		"sentimentDistribution": map[string]int{"positive": 6, "neutral": 3, "negative": 3},
		"sponsorshipInsights":   map[string]interface{}{"verdict": "Recommended", "brandSafetyScore": 74},
		"posts":                 posts,
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return "```json\n" + string(data) + "\n```"
}

func TestBuild_MrBeastScenario(t *testing.T) {
	result, err := analysis.Normalize(mrBeastPayload(t), []models.GroundingChunk{
		{Web: &models.GroundingWeb{URI: "https://youtube.com/@MrBeast", Title: "youtube.com"}},
	})
	require.NoError(t, err)

	view := Build(result, nil)

	pieTotal := 0.0
	for _, s := range view.Pie {
		pieTotal += s.Value
	}
	assert.Equal(t, 12.0, pieTotal)

	require.Len(t, view.Platforms, 3)
	assert.Equal(t, models.PlatformYouTube, view.Platforms[0].Name)
	assert.Equal(t, models.PlatformReddit, view.Platforms[1].Name)
	assert.Equal(t, models.PlatformTwitter, view.Platforms[2].Name)
	for _, row := range view.Platforms {
		assert.Equal(t, 4, row.Posts)
	}

	require.Len(t, view.Feed, 12)
	for i, post := range view.Feed {
		assert.Equal(t, fmt.Sprintf("post-%02d", i), post.ID)
	}

	assert.Len(t, view.Sources, 1)
	assert.Equal(t, "blue", view.VerdictTone)
	assert.Equal(t, "yellow", view.SafetyTone)
	assert.Nil(t, view.CrossCheck)
}

func TestBuild_Fallback(t *testing.T) {
	view := Build(analysis.Fallback("Nobody"), nil)

	assert.Empty(t, view.Platforms)
	assert.Empty(t, view.Feed)
	assert.NotNil(t, view.Sources)
	assert.Equal(t, "yellow", view.VerdictTone)
	assert.Equal(t, "red", view.SafetyTone)
}
