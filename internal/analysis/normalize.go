package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/samarthumrao/BrandPulse-AI/internal/models"
)

const codeFence = "```"

// ParseError is returned when the model output is not a valid AnalysisResult payload
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response %q: %v", e.Snippet, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StripCodeFence removes a surrounding ``` or ```json wrapper. Unfenced text is only trimmed.
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, codeFence) {
		return cleaned
	}

	rest := cleaned[len(codeFence):]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		// single-line fence, drop the language tag if any
		rest = strings.TrimLeftFunc(rest, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		})
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, codeFence)
	return strings.TrimSpace(rest)
}

// NormalizePlatform maps any platform label onto one of the fixed platforms.
// Unrecognized labels map to News.
func NormalizePlatform(label string) models.Platform {
	lower := strings.ToLower(label)

	switch {
	case strings.Contains(lower, "youtube"):
		return models.PlatformYouTube
	case strings.Contains(lower, "instagram"):
		return models.PlatformInstagram
	case strings.Contains(lower, "reddit"):
		return models.PlatformReddit
	case strings.Contains(lower, "twitter") || strings.Contains(label, "X"):
		return models.PlatformTwitter
	case strings.Contains(lower, "facebook"):
		return models.PlatformFacebook
	case strings.Contains(lower, "quora"):
		return models.PlatformQuora
	default:
		return models.PlatformNews
	}
}

// ExtractSources turns grounding chunks into citations. Chunks without a web entry
// or without a URI are skipped. Order is preserved and duplicates are kept.
func ExtractSources(chunks []models.GroundingChunk) []models.Source {
	sources := make([]models.Source, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, models.Source{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}

// Normalize parses raw model output into an AnalysisResult, fixing up platform
// labels and attaching citations from the grounding chunks.
func Normalize(raw string, chunks []models.GroundingChunk) (*models.AnalysisResult, error) {
	text := StripCodeFence(raw)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &ParseError{Snippet: snippet(text, 80), Err: err}
	}

	if result.Posts == nil {
		result.Posts = []models.Post{}
	}
	for i := range result.Posts {
		result.Posts[i].Platform = NormalizePlatform(string(result.Posts[i].Platform))
	}

	result.Sources = ExtractSources(chunks)

	return &result, nil
}

func snippet(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
