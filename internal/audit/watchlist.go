package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samarthumrao/BrandPulse-AI/internal/metrics"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/sirupsen/logrus"
)

// maxConcurrentAudits bounds parallel provider calls during a watchlist run
const maxConcurrentAudits = 3

// RunWatchlist audits every configured brand, sends one report and raises
// alerts for brands that failed or are not recommended.
func (s *Service) RunWatchlist(ctx context.Context) error {
	return s.RunBrands(ctx, s.config.Watchlist, s.config.ReportSchedule)
}

// RunBrands audits the given brands and reports them under period
func (s *Service) RunBrands(ctx context.Context, brands []string, period string) error {
	brands = dedupeBrands(brands)
	if len(brands) == 0 {
		logrus.Info("Watchlist is empty, nothing to audit")
		return nil
	}

	start := time.Now()
	logrus.Infof("Starting watchlist run for %d brands", len(brands))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	results := make([]models.AnalysisResult, len(brands))
	failed := make([]bool, len(brands))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentAudits)

	for i, brand := range brands {
		wg.Add(1)
		go func(i int, brand string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result, outcome := s.Analyze(ctx, brand)
			results[i] = *result
			failed[i] = outcome.Failed
		}(i, brand)
	}
	wg.Wait()

	report := s.generateReport(results, failed, period)

	if s.notificationService == nil {
		logrus.Warn("No notification service configured, report not sent")
		return nil
	}

	if err := s.notificationService.SendReport(report); err != nil {
		logrus.Errorf("Failed to send report: %v", err)
		metrics.WatchlistRunsTotal.WithLabelValues("report_failed").Inc()
		return err
	}
	metrics.WatchlistRunsTotal.WithLabelValues("success").Inc()

	for i := range results {
		alert := buildAlert(&results[i], failed[i])
		if alert == nil {
			continue
		}
		if err := s.notificationService.SendAlert(alert); err != nil {
			logrus.Errorf("Failed to send alert for %s: %v", results[i].BrandName, err)
		}
	}

	logrus.Infof("Watchlist run completed in %v", time.Since(start))
	return nil
}

func (s *Service) generateReport(results []models.AnalysisResult, failed []bool, period string) *models.Report {
	report := &models.Report{
		GeneratedAt: time.Now(),
		Period:      period,
		TotalAudits: len(results),
		Results:     results,
		Summary:     make(map[string]interface{}),
	}

	verdictCount := make(map[string]int)
	failedBrands := []string{}

	for i, result := range results {
		if failed[i] {
			failedBrands = append(failedBrands, result.BrandName)
			continue
		}
		verdictCount[result.SponsorshipInsights.Verdict]++
	}

	report.Summary["verdicts"] = verdictCount
	report.Summary["failed"] = failedBrands
	report.Summary["top_brands"] = topBrands(results, failed)

	return report
}

// topBrands lists up to five successful audits by descending overall score
func topBrands(results []models.AnalysisResult, failed []bool) []string {
	type brandScore struct {
		name  string
		score float64
	}

	var scores []brandScore
	for i, result := range results {
		if failed[i] {
			continue
		}
		scores = append(scores, brandScore{result.BrandName, result.OverallScore})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	var top []string
	for i, score := range scores {
		if i >= 5 {
			break
		}
		top = append(top, fmt.Sprintf("%s (%.0f)", score.name, score.score))
	}

	return top
}

func buildAlert(result *models.AnalysisResult, failed bool) *models.Alert {
	now := time.Now()

	switch {
	case failed:
		return &models.Alert{
			ID:        uuid.NewString(),
			Type:      "urgent",
			Title:     fmt.Sprintf("Audit failed: %s", result.BrandName),
			Message:   "Live data could not be retrieved. The report shows placeholder values for this brand.",
			Result:    result,
			CreatedAt: now,
		}
	case result.SponsorshipInsights.Verdict == models.VerdictNotRecommended:
		return &models.Alert{
			ID:        uuid.NewString(),
			Type:      "critical",
			Title:     fmt.Sprintf("Sponsorship risk: %s", result.BrandName),
			Message:   fmt.Sprintf("Verdict is %s with brand safety %.0f/100.", result.SponsorshipInsights.Verdict, result.SponsorshipInsights.BrandSafetyScore),
			Result:    result,
			CreatedAt: now,
		}
	}

	return nil
}

func dedupeBrands(brands []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, brand := range brands {
		brand = strings.TrimSpace(brand)
		key := strings.ToLower(brand)
		if brand == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, brand)
	}
	return out
}
