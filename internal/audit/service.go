package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samarthumrao/BrandPulse-AI/internal/analysis"
	"github.com/samarthumrao/BrandPulse-AI/internal/cache"
	"github.com/samarthumrao/BrandPulse-AI/internal/config"
	"github.com/samarthumrao/BrandPulse-AI/internal/gemini"
	"github.com/samarthumrao/BrandPulse-AI/internal/metrics"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/samarthumrao/BrandPulse-AI/internal/notifications"
	"github.com/samarthumrao/BrandPulse-AI/internal/sentiment"
	"github.com/samarthumrao/BrandPulse-AI/internal/storage"
	"github.com/sirupsen/logrus"
)

// Provider generates the raw analysis text for a prompt
type Provider interface {
	GetName() string
	IsEnabled() bool
	Generate(ctx context.Context, prompt string) (*gemini.Response, error)
}

// Outcome describes how a result was produced
type Outcome struct {
	Failed   bool
	Cached   bool
	Err      error
	Duration time.Duration
}

// Service runs brand audits against the provider
type Service struct {
	config              *config.Config
	provider            Provider
	cache               cache.Cache
	storage             storage.StorageInterface
	notificationService notifications.NotificationInterface
	analyzer            *sentiment.Analyzer
	metrics             *Metrics
	mu                  sync.RWMutex
}

// Metrics holds audit metrics
type Metrics struct {
	TotalAudits        int            `json:"total_audits"`
	FailedAudits       int            `json:"failed_audits"`
	CacheHits          int            `json:"cache_hits"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	PlatformBreakdown  map[string]int `json:"platform_breakdown"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
}

// NewService creates a new audit service. cache, storage and notificationService may be nil.
func NewService(cfg *config.Config, provider Provider, resultCache cache.Cache, store storage.StorageInterface, notificationService notifications.NotificationInterface) *Service {
	s := &Service{
		config:              cfg,
		provider:            provider,
		cache:               resultCache,
		storage:             store,
		notificationService: notificationService,
		metrics: &Metrics{
			PlatformBreakdown:  make(map[string]int),
			SentimentBreakdown: make(map[string]int),
		},
	}

	if cfg.EnableSentimentCrossCheck {
		s.analyzer = sentiment.NewAnalyzer()
	}

	return s
}

// Analyze produces a result for brandName. It never returns nil: any provider or
// parse failure yields the fallback result with Outcome.Failed set.
func (s *Service) Analyze(ctx context.Context, brandName string) (*models.AnalysisResult, Outcome) {
	start := time.Now()
	brandName = strings.TrimSpace(brandName)

	if result, ok := s.fromCache(ctx, brandName); ok {
		outcome := Outcome{Cached: true, Duration: time.Since(start)}
		s.recordRun(result, outcome)
		return result, outcome
	}

	result, err := s.generate(ctx, brandName)
	outcome := Outcome{Err: err, Duration: time.Since(start)}

	if err != nil {
		logrus.Errorf("Analysis for %q failed: %v", brandName, err)
		outcome.Failed = true
		result = analysis.Fallback(brandName)
		s.recordRun(result, outcome)
		return result, outcome
	}

	logrus.Infof("Analysis for %q completed in %v: %d posts, %d sources", brandName, outcome.Duration, len(result.Posts), len(result.Sources))

	s.toCache(ctx, brandName, result)
	s.archive(ctx, brandName, result)
	s.recordRun(result, outcome)

	return result, outcome
}

func (s *Service) generate(ctx context.Context, brandName string) (*models.AnalysisResult, error) {
	if s.provider == nil || !s.provider.IsEnabled() {
		return nil, fmt.Errorf("analysis provider is not configured")
	}

	logrus.Infof("Requesting analysis for %q from %s", brandName, s.provider.GetName())

	resp, err := s.provider.Generate(ctx, gemini.BuildPrompt(brandName))
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", s.provider.GetName(), err)
	}

	result, err := analysis.Normalize(resp.Text, resp.GroundingChunks)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) fromCache(ctx context.Context, brandName string) (*models.AnalysisResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	key := cache.Key(brandName)
	if key == "" {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logrus.Warnf("Cache lookup for %s failed: %v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		logrus.Warnf("Ignoring unreadable cache entry %s: %v", key, err)
		return nil, false
	}

	logrus.Debugf("Cache hit for %s", key)
	return &result, true
}

func (s *Service) toCache(ctx context.Context, brandName string, result *models.AnalysisResult) {
	key := cache.Key(brandName)
	if s.cache == nil || key == "" {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		logrus.Errorf("Failed to marshal result for cache: %v", err)
		return
	}

	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		logrus.Warnf("Failed to cache result for %q: %v", brandName, err)
	}
}

func (s *Service) archive(ctx context.Context, brandName string, result *models.AnalysisResult) {
	if s.storage == nil {
		return
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logrus.Errorf("Failed to marshal result for archive: %v", err)
		return
	}

	if err := s.storage.Store(ctx, ArchiveName(brandName, time.Now()), data); err != nil {
		logrus.Errorf("Failed to archive result for %q: %v", brandName, err)
		return
	}

	s.prune(ctx, brandName)
}

// CrossCheck compares model sentiment with the lexicon. Returns nil when disabled.
func (s *Service) CrossCheck(result *models.AnalysisResult) *sentiment.Report {
	if s.analyzer == nil || result == nil {
		return nil
	}
	return s.analyzer.CrossCheck(result.Posts)
}

func (s *Service) recordRun(result *models.AnalysisResult, outcome Outcome) {
	label := "success"
	switch {
	case outcome.Failed:
		label = "failed"
	case outcome.Cached:
		label = "cached"
	}
	metrics.AuditsTotal.WithLabelValues(label).Inc()
	metrics.AuditDurationSeconds.WithLabelValues(label).Observe(outcome.Duration.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalAudits++
	if outcome.Failed {
		s.metrics.FailedAudits++
	}
	if outcome.Cached {
		s.metrics.CacheHits++
	}
	s.metrics.LastRun = time.Now()
	s.metrics.LastRunDuration = outcome.Duration.String()

	for _, post := range result.Posts {
		s.metrics.PlatformBreakdown[string(post.Platform)]++
		s.metrics.SentimentBreakdown[string(post.Sentiment)]++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
