package sentiment

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
)

const labelThreshold = 0.20

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// Analyzer scores snippets with the VADER lexicon
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// Disagreement records a post where the model and the lexicon differ
type Disagreement struct {
	PostID   string           `json:"postId"`
	Model    models.Sentiment `json:"model"`
	Lexicon  models.Sentiment `json:"lexicon"`
	Compound float64          `json:"compound"`
}

// Report summarizes how often the model's labels agree with the lexicon
type Report struct {
	Checked       int            `json:"checked"`
	Agreed        int            `json:"agreed"`
	AgreementRate float64        `json:"agreementRate"` // percent, one decimal
	Disagreements []Disagreement `json:"disagreements"`
}

// NewAnalyzer creates a VADER-backed analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// PlainText converts a markdown snippet to plain text and drops links
func PlainText(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")

	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := htmlTagPattern.ReplaceAllString(string(output), " ")
	text = html.UnescapeString(urlPattern.ReplaceAllString(text, ""))

	return strings.Join(strings.Fields(text), " ")
}

// Label returns the compound score and the label it maps to
func (a *Analyzer) Label(text string) (float64, models.Sentiment) {
	score := a.vader.PolarityScores(PlainText(text)).Compound

	switch {
	case score >= labelThreshold:
		return score, models.SentimentPositive
	case score <= -labelThreshold:
		return score, models.SentimentNegative
	default:
		return score, models.SentimentNeutral
	}
}

// CrossCheck compares each post's model label with the lexicon label.
// Posts are never modified.
func (a *Analyzer) CrossCheck(posts []models.Post) *Report {
	report := &Report{Disagreements: []Disagreement{}}

	for _, post := range posts {
		if strings.TrimSpace(post.Content) == "" {
			continue
		}

		compound, label := a.Label(post.Content)
		report.Checked++

		if strings.EqualFold(string(post.Sentiment), string(label)) {
			report.Agreed++
			continue
		}

		report.Disagreements = append(report.Disagreements, Disagreement{
			PostID:   post.ID,
			Model:    post.Sentiment,
			Lexicon:  label,
			Compound: compound,
		})
	}

	if report.Checked > 0 {
		report.AgreementRate = math.Round(float64(report.Agreed)/float64(report.Checked)*1000) / 10
	}

	return report
}
