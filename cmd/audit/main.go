package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samarthumrao/BrandPulse-AI/internal/audit"
	"github.com/samarthumrao/BrandPulse-AI/internal/cache"
	"github.com/samarthumrao/BrandPulse-AI/internal/config"
	"github.com/samarthumrao/BrandPulse-AI/internal/dashboard"
	"github.com/samarthumrao/BrandPulse-AI/internal/gemini"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/samarthumrao/BrandPulse-AI/internal/storage"
	"github.com/sirupsen/logrus"
)

// terminalNotifier prints reports instead of sending them
type terminalNotifier struct {
	service *audit.Service
	asJSON  bool
}

func (t *terminalNotifier) SendReport(report *models.Report) error {
	if t.asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("BRANDPULSE SPONSORSHIP REPORT")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Audits:    %d\n", report.TotalAudits)

	for i := range report.Results {
		printResult(&report.Results[i], t.service)
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	return nil
}

func (t *terminalNotifier) SendAlert(alert *models.Alert) error {
	if t.asJSON {
		return nil
	}
	fmt.Printf("\n[%s] %s\n   %s\n", strings.ToUpper(alert.Type), alert.Title, alert.Message)
	return nil
}

func printResult(result *models.AnalysisResult, service *audit.Service) {
	view := dashboard.Build(result, service.CrossCheck(result))
	insights := result.SponsorshipInsights

	fmt.Println("\n" + strings.Repeat("-", 70))
	fmt.Printf("%s  |  %s (%s)\n", result.BrandName, insights.Verdict, view.VerdictTone)
	fmt.Printf("Score %.0f/100  |  Brand safety %.0f/100 (%s)  |  Engagement %s\n",
		result.OverallScore, insights.BrandSafetyScore, view.SafetyTone, insights.EngagementRate)
	fmt.Printf("Reach %s  |  Growth %s  |  Saturation %s\n",
		insights.ReachEstimation, insights.GrowthTrend, insights.CompetitorSaturation)

	if result.Summary != "" {
		fmt.Printf("\n%s\n", result.Summary)
	}

	fmt.Println("\nSentiment:")
	for _, slice := range view.Pie {
		fmt.Printf("   %-9s %3s  (%.1f%%)\n", slice.Name, strconv.FormatFloat(slice.Value, 'f', -1, 64), slice.Percent)
	}

	if len(view.Platforms) > 0 {
		fmt.Println("\nPlatforms:")
		for _, stat := range view.Platforms {
			fmt.Printf("   %-10s %3d posts  sentiment %d\n", stat.Name, stat.Posts, stat.Sentiment)
		}
	}

	if len(insights.RiskFactors) > 0 {
		fmt.Printf("\nRisks: %s\n", strings.Join(insights.RiskFactors, ", "))
	}

	if view.CrossCheck != nil && view.CrossCheck.Checked > 0 {
		fmt.Printf("Lexicon agreement: %d/%d (%.1f%%)\n",
			view.CrossCheck.Agreed, view.CrossCheck.Checked, view.CrossCheck.AgreementRate)
	}

	if len(view.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range view.Sources {
			fmt.Printf("   - %s  %s\n", source.Title, source.URI)
		}
	}
}

func main() {
	useWatchlist := flag.Bool("watchlist", false, "audit the brands in WATCHLIST")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	archive := flag.Bool("archive", false, "archive results under LOCAL_STORAGE_DIR")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <brand or influencer>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.WarnLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	brands := flag.Args()
	if *useWatchlist {
		brands = append(brands, cfg.Watchlist...)
	}
	if len(brands) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	provider := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.RequestTimeout).
		WithRateLimit(cfg.GeminiRateLimit)
	if !provider.IsEnabled() {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY is not set; results will be placeholders")
	}

	var store storage.StorageInterface
	if *archive {
		local, err := storage.NewLocalStorage(cfg.LocalStorageDir)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", cfg.LocalStorageDir, err)
		}
		store = local
	}

	notifier := &terminalNotifier{asJSON: *asJSON}
	service := audit.NewService(cfg, provider, cache.NewMemoryCache(), store, notifier)
	notifier.service = service

	if err := service.RunBrands(context.Background(), brands, "manual"); err != nil {
		log.Fatalf("Audit failed: %v", err)
	}
}
