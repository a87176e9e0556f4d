package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samarthumrao/BrandPulse-AI/internal/metrics"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Generative Language API endpoint
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("gemini api key not configured")
	// ErrEmptyResponse is returned when the model produced no text
	ErrEmptyResponse = errors.New("no data returned from gemini")
)

// Client calls Gemini generateContent with Google Search grounding
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *resty.Client
	limiter *rate.Limiter
}

// Response is the text and grounding data of the first candidate
type Response struct {
	Text            string
	GroundingChunks []models.GroundingChunk
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	Tools            []tool           `json:"tools"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content           content `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []models.GroundingChunk `json:"groundingChunks"`
		} `json:"groundingMetadata,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewClient creates a new Gemini client
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  resty.New().SetTimeout(timeout),
	}
}

// WithRateLimit caps outgoing requests per minute. Zero or less means unlimited.
func (c *Client) WithRateLimit(perMinute int) *Client {
	if perMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	return c
}

func (c *Client) GetName() string {
	return "gemini/" + c.model
}

func (c *Client) IsEnabled() bool {
	return c.apiKey != ""
}

// Generate sends a single prompt at temperature 0 with search grounding enabled
func (c *Client) Generate(ctx context.Context, prompt string) (*Response, error) {
	if !c.IsEnabled() {
		return nil, ErrNotConfigured
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.ProviderRequestsTotal.WithLabelValues("rate_limited").Inc()
			return nil, fmt.Errorf("gemini rate limit: %w", err)
		}
	}

	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{Temperature: 0},
		Tools:            []tool{{GoogleSearch: &struct{}{}}},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	logrus.Debugf("Calling %s", url)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(reqBody).
		Post(url)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	var parsed generateResponse
	unmarshalErr := json.Unmarshal(resp.Body(), &parsed)

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		metrics.ProviderRequestsTotal.WithLabelValues("http_error").Inc()
		if unmarshalErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("gemini http %d: %s", resp.StatusCode(), parsed.Error.Message)
		}
		return nil, fmt.Errorf("gemini http %d", resp.StatusCode())
	}
	if unmarshalErr != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("bad_response").Inc()
		return nil, fmt.Errorf("failed to decode gemini response: %w", unmarshalErr)
	}

	if len(parsed.Candidates) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	candidate := parsed.Candidates[0]

	var b strings.Builder
	for _, p := range candidate.Content.Parts {
		b.WriteString(p.Text)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		metrics.ProviderRequestsTotal.WithLabelValues("empty").Inc()
		return nil, ErrEmptyResponse
	}
	metrics.ProviderRequestsTotal.WithLabelValues("ok").Inc()

	out := &Response{Text: text}
	if candidate.GroundingMetadata != nil {
		out.GroundingChunks = candidate.GroundingMetadata.GroundingChunks
	}

	return out, nil
}
