package dashboard

import (
	"math"

	"github.com/samarthumrao/BrandPulse-AI/internal/models"
)

// PlatformStat is one row of the volume/sentiment chart
type PlatformStat struct {
	Name      models.Platform `json:"name"`
	Posts     int             `json:"posts"`
	Sentiment int             `json:"sentiment"` // average score, 0-100
}

// SentimentScore maps a sentiment label to its chart score.
// Anything that is not Positive or Negative scores as neutral.
func SentimentScore(s models.Sentiment) int {
	switch s {
	case models.SentimentPositive:
		return 100
	case models.SentimentNegative:
		return 0
	default:
		return 50
	}
}

// PlatformStats groups posts by platform in order of first appearance and
// averages their sentiment scores
func PlatformStats(posts []models.Post) []PlatformStat {
	type bucket struct {
		count    int
		scoreSum int
	}

	var order []models.Platform
	buckets := make(map[models.Platform]*bucket)

	for _, post := range posts {
		b, ok := buckets[post.Platform]
		if !ok {
			b = &bucket{}
			buckets[post.Platform] = b
			order = append(order, post.Platform)
		}
		b.count++
		b.scoreSum += SentimentScore(post.Sentiment)
	}

	stats := make([]PlatformStat, 0, len(order))
	for _, platform := range order {
		b := buckets[platform]
		stats = append(stats, PlatformStat{
			Name:      platform,
			Posts:     b.count,
			Sentiment: int(math.Round(float64(b.scoreSum) / float64(b.count))),
		})
	}

	return stats
}

// Slice is one wedge of the sentiment pie
type Slice struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"` // share of totalPosts
}

// SentimentSlices builds the pie from the reported distribution
func SentimentSlices(result *models.AnalysisResult) []Slice {
	total := result.TotalPosts
	if total == 0 {
		total = 1
	}

	dist := result.SentimentDistribution
	slices := []Slice{
		{Name: string(models.SentimentPositive), Value: dist.Positive, Color: "#22c55e"},
		{Name: string(models.SentimentNeutral), Value: dist.Neutral, Color: "#eab308"},
		{Name: string(models.SentimentNegative), Value: dist.Negative, Color: "#ef4444"},
	}
	for i := range slices {
		slices[i].Percent = math.Round(slices[i].Value/total*1000) / 10
	}

	return slices
}
