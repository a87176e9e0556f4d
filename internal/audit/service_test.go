package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/samarthumrao/BrandPulse-AI/internal/analysis"
	"github.com/samarthumrao/BrandPulse-AI/internal/cache"
	"github.com/samarthumrao/BrandPulse-AI/internal/config"
	"github.com/samarthumrao/BrandPulse-AI/internal/gemini"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/samarthumrao/BrandPulse-AI/internal/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider is a mock implementation of the analysis provider
type MockProvider struct {
	mock.Mock
	enabled bool
}

func (m *MockProvider) GetName() string { return "mock" }

func (m *MockProvider) IsEnabled() bool { return m.enabled }

func (m *MockProvider) Generate(ctx context.Context, prompt string) (*gemini.Response, error) {
	args := m.Called(ctx, prompt)
	if resp := args.Get(0); resp != nil {
		return resp.(*gemini.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockStorage is a mock implementation of the storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, name string, data []byte) error {
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(name)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(name)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockNotificationService) SendAlert(alert *models.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

const recommendedPayload = "```json\n" + `{
  "brandName": "MrBeast",
  "overallScore": 82,
  "totalPosts": 2,
  "sentimentDistribution": {"positive": 1, "neutral": 1, "negative": 0},
  "posts": [
    {"id": "1", "content": "Best video ever", "platform": "YouTube Comments", "sentiment": "Positive", "author": "a", "timestamp": "2 days ago", "likes": 10},
    {"id": "2", "content": "It was fine", "platform": "Reddit r/videos", "sentiment": "Neutral", "author": "b", "timestamp": "1 week ago", "likes": 3}
  ],
  "summary": "Strong reach.",
  "sponsorshipInsights": {"verdict": "Highly Recommended", "brandSafetyScore": 90, "riskFactors": []}
}` + "\n```"

const riskyPayload = `{"brandName": "Edgy", "overallScore": 20, "posts": [], "sponsorshipInsights": {"verdict": "Not Recommended", "brandSafetyScore": 15}}`

func groundedResponse(text string) *gemini.Response {
	return &gemini.Response{
		Text: text,
		GroundingChunks: []models.GroundingChunk{
			{Web: &models.GroundingWeb{URI: "https://youtube.com/watch?v=1", Title: "youtube.com"}},
			{Web: nil},
		},
	}
}

func newTestService(provider Provider, store *MockStorage, notifier *MockNotificationService) (*Service, *cache.MemoryCache) {
	cfg := &config.Config{
		CacheTTL:                  time.Hour,
		ReportSchedule:            "weekly",
		EnableSentimentCrossCheck: true,
	}
	memory := cache.NewMemoryCache()
	var notifierIface notifications.NotificationInterface
	if notifier != nil {
		notifierIface = notifier
	}
	svc := NewService(cfg, provider, memory, store, notifierIface)
	return svc, memory
}

func TestService_AnalyzeSuccess(t *testing.T) {
	provider := &MockProvider{enabled: true}
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, `"MrBeast"`)
	})).Return(groundedResponse(recommendedPayload), nil).Once()

	store := &MockStorage{}
	store.On("Store", mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "audits/mrbeast/") && strings.HasSuffix(name, ".json")
	}), mock.Anything).Return(nil).Once()

	svc, memory := newTestService(provider, store, nil)

	result, outcome := svc.Analyze(context.Background(), "  MrBeast ")
	require.NotNil(t, result)
	assert.False(t, outcome.Failed)
	assert.False(t, outcome.Cached)
	assert.NoError(t, outcome.Err)

	assert.Equal(t, "MrBeast", result.BrandName)
	assert.Equal(t, 82.0, result.OverallScore)
	assert.Equal(t, models.PlatformYouTube, result.Posts[0].Platform)
	assert.Equal(t, models.PlatformReddit, result.Posts[1].Platform)
	assert.Equal(t, []models.Source{{Title: "youtube.com", URI: "https://youtube.com/watch?v=1"}}, result.Sources)

	_, ok, err := memory.Get(context.Background(), cache.Key("MrBeast"))
	require.NoError(t, err)
	assert.True(t, ok)

	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_AnalyzeUsesCache(t *testing.T) {
	provider := &MockProvider{enabled: true}
	provider.On("Generate", mock.Anything, mock.Anything).Return(groundedResponse(recommendedPayload), nil).Once()

	store := &MockStorage{}
	store.On("Store", mock.Anything, mock.Anything).Return(nil).Once()

	svc, _ := newTestService(provider, store, nil)

	first, _ := svc.Analyze(context.Background(), "MrBeast")
	second, outcome := svc.Analyze(context.Background(), "mr. beast")

	assert.True(t, outcome.Cached)
	assert.Equal(t, first, second)

	// provider and archive were each hit exactly once
	provider.AssertExpectations(t)
	store.AssertExpectations(t)

	var metrics Metrics
	require.NoError(t, json.Unmarshal([]byte(svc.GetMetrics()), &metrics))
	assert.Equal(t, 2, metrics.TotalAudits)
	assert.Equal(t, 1, metrics.CacheHits)
	assert.Equal(t, 0, metrics.FailedAudits)
	assert.Equal(t, 2, metrics.PlatformBreakdown[string(models.PlatformYouTube)])
}

func TestService_AnalyzeSymbolNamesDoNotShareCache(t *testing.T) {
	provider := &MockProvider{enabled: true}
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, `"C++"`)
	})).Return(groundedResponse(recommendedPayload), nil).Once()
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, `"C#"`)
	})).Return(groundedResponse(riskyPayload), nil).Once()

	store := &MockStorage{}
	store.On("Store", mock.Anything, mock.Anything).Return(nil).Twice()

	svc, _ := newTestService(provider, store, nil)

	first, _ := svc.Analyze(context.Background(), "C++")
	second, outcome := svc.Analyze(context.Background(), "C#")

	assert.False(t, outcome.Cached)
	assert.NotEqual(t, first.BrandName, second.BrandName)

	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_AnalyzeFailures(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		response *gemini.Response
		err      error
	}{
		{name: "provider disabled", enabled: false},
		{name: "provider error", enabled: true, err: errors.New("quota exceeded")},
		{name: "invalid json", enabled: true, response: groundedResponse("Sorry, I cannot help with that.")},
		{name: "empty text", enabled: true, response: groundedResponse("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProvider{enabled: tt.enabled}
			if tt.enabled {
				provider.On("Generate", mock.Anything, mock.Anything).Return(tt.response, tt.err)
			}

			store := &MockStorage{}
			svc, memory := newTestService(provider, store, nil)

			result, outcome := svc.Analyze(context.Background(), "Ghost")
			require.NotNil(t, result)
			assert.True(t, outcome.Failed)
			assert.Error(t, outcome.Err)
			assert.Equal(t, analysis.Fallback("Ghost"), result)

			// failures are neither cached nor archived
			_, ok, _ := memory.Get(context.Background(), cache.Key("Ghost"))
			assert.False(t, ok)
			store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		})
	}
}

func TestService_AnalyzeArchiveFailureIsNotFatal(t *testing.T) {
	provider := &MockProvider{enabled: true}
	provider.On("Generate", mock.Anything, mock.Anything).Return(groundedResponse(recommendedPayload), nil)

	store := &MockStorage{}
	store.On("Store", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc, _ := newTestService(provider, store, nil)

	result, outcome := svc.Analyze(context.Background(), "MrBeast")
	assert.False(t, outcome.Failed)
	assert.Equal(t, "MrBeast", result.BrandName)
}

func TestService_CrossCheck(t *testing.T) {
	svc, _ := newTestService(&MockProvider{}, &MockStorage{}, nil)

	report := svc.CrossCheck(&models.AnalysisResult{Posts: []models.Post{
		{ID: "1", Content: "I love this, amazing work!", Sentiment: models.SentimentPositive},
	}})
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Checked)

	svc.analyzer = nil
	assert.Nil(t, svc.CrossCheck(&models.AnalysisResult{}))
}

func TestArchiveName(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC)
	assert.Equal(t, "audits/mrbeast/2025-03-01-09-30-15.json", ArchiveName("Mr. Beast", ts))
	assert.Equal(t, "audits/unnamed/2025-03-01-09-30-15.json", ArchiveName("  ", ts))
	assert.NotEqual(t, ArchiveName("C++", ts), ArchiveName("C#", ts))
	assert.Regexp(t, `^audits/c-[0-9a-f]{8}/2025-03-01-09-30-15\.json$`, ArchiveName("C++", ts))
}

func TestService_RunBrands(t *testing.T) {
	provider := &MockProvider{enabled: true}
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, `"MrBeast"`) })).
		Return(groundedResponse(recommendedPayload), nil)
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, `"Edgy"`) })).
		Return(groundedResponse(riskyPayload), nil)
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, `"Ghost"`) })).
		Return(nil, errors.New("timeout"))

	store := &MockStorage{}
	store.On("Store", mock.Anything, mock.Anything).Return(nil)

	notifier := &MockNotificationService{}
	var sent *models.Report
	notifier.On("SendReport", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*models.Report)
	}).Return(nil).Once()

	var alerts []*models.Alert
	notifier.On("SendAlert", mock.Anything).Run(func(args mock.Arguments) {
		alerts = append(alerts, args.Get(0).(*models.Alert))
	}).Return(nil)

	svc, _ := newTestService(provider, store, notifier)

	err := svc.RunBrands(context.Background(), []string{"MrBeast", "Edgy", " ", "mrbeast", "Ghost"}, "manual")
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, "manual", sent.Period)
	assert.Equal(t, 3, sent.TotalAudits)
	require.Len(t, sent.Results, 3)
	assert.Equal(t, "MrBeast", sent.Results[0].BrandName)
	assert.Equal(t, "Edgy", sent.Results[1].BrandName)
	assert.Equal(t, analysis.FallbackSummary, sent.Results[2].Summary)

	assert.Equal(t, []string{"Ghost"}, sent.Summary["failed"])
	assert.Equal(t, []string{"MrBeast (82)", "Edgy (20)"}, sent.Summary["top_brands"])
	assert.Equal(t, map[string]int{models.VerdictHighlyRecommended: 1, models.VerdictNotRecommended: 1}, sent.Summary["verdicts"])

	require.Len(t, alerts, 2)
	assert.Equal(t, "critical", alerts[0].Type)
	assert.Equal(t, "Sponsorship risk: Edgy", alerts[0].Title)
	assert.Equal(t, "urgent", alerts[1].Type)
	assert.Equal(t, "Audit failed: Ghost", alerts[1].Title)

	notifier.AssertExpectations(t)
}

func TestService_RunWatchlistEmpty(t *testing.T) {
	notifier := &MockNotificationService{}
	svc, _ := newTestService(&MockProvider{}, &MockStorage{}, notifier)

	assert.NoError(t, svc.RunWatchlist(context.Background()))
	notifier.AssertNotCalled(t, "SendReport", mock.Anything)
}

func TestService_RunBrandsReportError(t *testing.T) {
	provider := &MockProvider{enabled: true}
	provider.On("Generate", mock.Anything, mock.Anything).Return(groundedResponse(recommendedPayload), nil)

	store := &MockStorage{}
	store.On("Store", mock.Anything, mock.Anything).Return(nil)

	notifier := &MockNotificationService{}
	notifier.On("SendReport", mock.Anything).Return(errors.New("webhook down"))

	svc, _ := newTestService(provider, store, notifier)

	err := svc.RunBrands(context.Background(), []string{"MrBeast"}, "daily")
	assert.EqualError(t, err, "webhook down")
	notifier.AssertNotCalled(t, "SendAlert", mock.Anything)
}
