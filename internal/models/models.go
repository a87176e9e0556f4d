package models

import "time"

// Platform is the social platform a post was found on
type Platform string

const (
	PlatformTwitter   Platform = "Twitter"
	PlatformFacebook  Platform = "Facebook"
	PlatformReddit    Platform = "Reddit"
	PlatformQuora     Platform = "Quora"
	PlatformYouTube   Platform = "YouTube"
	PlatformInstagram Platform = "Instagram"
	PlatformNews      Platform = "News"
)

// Platforms lists every platform value in declaration order
var Platforms = []Platform{
	PlatformTwitter,
	PlatformFacebook,
	PlatformReddit,
	PlatformQuora,
	PlatformYouTube,
	PlatformInstagram,
	PlatformNews,
}

// Sentiment is the label the model assigned to a post
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Verdict values used by SponsorshipInsights
const (
	VerdictHighlyRecommended = "Highly Recommended"
	VerdictRecommended       = "Recommended"
	VerdictCaution           = "Caution"
	VerdictNotRecommended    = "Not Recommended"
)

// Post represents a single snippet the model extracted from search results
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Platform  Platform  `json:"platform"`
	Sentiment Sentiment `json:"sentiment"`
	Author    string    `json:"author"`
	Timestamp string    `json:"timestamp"` // display string, not parsed
	Likes     float64   `json:"likes"`     // engagement count, any JSON number
}

// SentimentDistribution holds per-label post counts as the model reported them.
// Counts are float64 so 12.0 or 1.2e3 decode instead of failing the whole payload.
type SentimentDistribution struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// AudienceDemographics describes who follows the brand
type AudienceDemographics struct {
	AgeGroup     string   `json:"ageGroup"`
	GenderSplit  string   `json:"genderSplit"`
	TopInterests []string `json:"topInterests"`
}

// SponsorshipInsights is the model's partnership assessment
type SponsorshipInsights struct {
	Verdict              string               `json:"verdict"`
	BrandSafetyScore     float64              `json:"brandSafetyScore"` // 0-100, not clamped
	EngagementRate       string               `json:"engagementRate"`
	AudienceDemographics AudienceDemographics `json:"audienceDemographics"`
	RiskFactors          []string             `json:"riskFactors"`

	// ROI predictions
	ReachEstimation          string `json:"reachEstimation"`
	BrandValueImpact         string `json:"brandValueImpact"`
	FollowerGrowthPrediction string `json:"followerGrowthPrediction"`

	AuthenticityScore    float64  `json:"authenticityScore"`
	GrowthTrend          string   `json:"growthTrend"`          // Explosive, Steady, Stagnant, Declining
	CompetitorSaturation string   `json:"competitorSaturation"` // High, Medium, Low
	PastCollaborations   []string `json:"pastCollaborations"`
}

// Source is a citation taken from grounding metadata
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AnalysisResult is the full sponsorship intelligence for one search
type AnalysisResult struct {
	BrandName             string                `json:"brandName"`
	OverallScore          float64               `json:"overallScore"` // 0-100, not clamped
	TotalPosts            float64               `json:"totalPosts"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
	Posts                 []Post                `json:"posts"`
	Summary               string                `json:"summary"`
	SponsorshipInsights   SponsorshipInsights   `json:"sponsorshipInsights"`
	Sources               []Source              `json:"sources"`
}

// GroundingChunk is one entry of the provider's grounding metadata
type GroundingChunk struct {
	Web *GroundingWeb `json:"web,omitempty"`
}

// GroundingWeb is the web citation inside a grounding chunk
type GroundingWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// LogStatus is the severity of a status log line
type LogStatus string

const (
	LogInfo    LogStatus = "info"
	LogSuccess LogStatus = "success"
	LogWarning LogStatus = "warning"
	LogError   LogStatus = "error"
)

// LogEntry is one line of the status feed shown while a search runs
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Thread    string    `json:"thread"`
	Message   string    `json:"message"`
	Status    LogStatus `json:"status"`
}

// Report represents a batch of audits sent to notification channels
type Report struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Period      string                 `json:"period"` // "daily", "weekly" or "manual"
	TotalAudits int                    `json:"total_audits"`
	Results     []AnalysisResult       `json:"results"`
	Summary     map[string]interface{} `json:"summary"`
}

// Alert represents an urgent notification about a single audit
type Alert struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"` // "critical", "urgent", "info"
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Result    *AnalysisResult `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
