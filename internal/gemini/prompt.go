package gemini

import (
	"encoding/json"
	"fmt"
)

// schemaTemplate mirrors models.AnalysisResult with a type hint in place of every value.
// Field order matters for the prompt, so it is declared as ordered structs.
type schemaTemplate struct {
	BrandName             string `json:"brandName"`
	OverallScore          string `json:"overallScore"`
	TotalPosts            string `json:"totalPosts"`
	Summary               string `json:"summary"`
	SentimentDistribution struct {
		Positive string `json:"positive"`
		Neutral  string `json:"neutral"`
		Negative string `json:"negative"`
	} `json:"sentimentDistribution"`
	SponsorshipInsights struct {
		Verdict              string `json:"verdict"`
		BrandSafetyScore     string `json:"brandSafetyScore"`
		EngagementRate       string `json:"engagementRate"`
		AudienceDemographics struct {
			AgeGroup     string   `json:"ageGroup"`
			GenderSplit  string   `json:"genderSplit"`
			TopInterests []string `json:"topInterests"`
		} `json:"audienceDemographics"`
		RiskFactors              []string `json:"riskFactors"`
		ReachEstimation          string   `json:"reachEstimation"`
		BrandValueImpact         string   `json:"brandValueImpact"`
		FollowerGrowthPrediction string   `json:"followerGrowthPrediction"`
		AuthenticityScore        string   `json:"authenticityScore"`
		GrowthTrend              string   `json:"growthTrend"`
		CompetitorSaturation     string   `json:"competitorSaturation"`
		PastCollaborations       []string `json:"pastCollaborations"`
	} `json:"sponsorshipInsights"`
	Posts []postTemplate `json:"posts"`
}

type postTemplate struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Platform  string `json:"platform"`
	Sentiment string `json:"sentiment"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
	Likes     string `json:"likes"`
}

// SchemaTemplate returns the indented JSON template embedded in every prompt
func SchemaTemplate() string {
	var s schemaTemplate
	s.BrandName = "string"
	s.OverallScore = "number (0-100)"
	s.TotalPosts = "number"
	s.Summary = "string"
	s.SentimentDistribution.Positive = "number"
	s.SentimentDistribution.Neutral = "number"
	s.SentimentDistribution.Negative = "number"

	si := &s.SponsorshipInsights
	si.Verdict = "string (Highly Recommended | Recommended | Caution | Not Recommended)"
	si.BrandSafetyScore = "number (0-100)"
	si.EngagementRate = "string"
	si.AudienceDemographics.AgeGroup = "string"
	si.AudienceDemographics.GenderSplit = "string"
	si.AudienceDemographics.TopInterests = []string{"string"}
	si.RiskFactors = []string{"string"}
	si.ReachEstimation = "string"
	si.BrandValueImpact = "string"
	si.FollowerGrowthPrediction = "string"
	si.AuthenticityScore = "number"
	si.GrowthTrend = "string (Explosive | Steady | Stagnant | Declining)"
	si.CompetitorSaturation = "string (High | Medium | Low)"
	si.PastCollaborations = []string{"string"}

	s.Posts = []postTemplate{{
		ID:        "string",
		Content:   "string",
		Platform:  "string (Twitter | Facebook | Reddit | YouTube | Instagram | News)",
		Sentiment: "string (Positive | Negative | Neutral)",
		Author:    "string",
		Timestamp: "string",
		Likes:     "number",
	}}

	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}

const promptTemplate = `
Perform a targeted real-time web search for %q.
Focus specifically on finding recent discussions, comments, videos, and posts from:
- **YouTube** (Video titles, descriptions, channel names)
- **Reddit** (Thread titles, top comments)
- **Instagram** (Captions, public profiles)
- **Twitter/X** (Recent tweets)

Based *strictly* on the actual search results found:

1. **Real Content Extraction**: Extract 10-15 actual quotes, titles, or text snippets found in the search results.
   - **DO NOT GENERATE FAKE POSTS**.
   - If you find a YouTube video, use the video title as the content and "YouTube" as the platform.
   - If you find a Reddit thread, use the thread title or a top comment.
   - If specific social posts are blocked, use News Headlines covering the brand and label platform as "News".

2. **Analysis**:
   - Analyze the sentiment of these *real* snippets.
   - Base the 'sponsorshipInsights' purely on the current public perception found in these search results.

CRITICAL: You must return the result as a valid, raw JSON object matching the schema below.
Do not include any markdown formatting (like ` + "```json" + `). Just the raw JSON string.

Required Schema:
%s
`

// BuildPrompt renders the analysis instruction for a brand or influencer name
func BuildPrompt(brandName string) string {
	return fmt.Sprintf(promptTemplate, brandName, SchemaTemplate())
}
