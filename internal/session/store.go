package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samarthumrao/BrandPulse-AI/internal/audit"
	"github.com/samarthumrao/BrandPulse-AI/internal/metrics"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyQuery     = errors.New("query is empty")
	ErrSearchInFlight = errors.New("a search is already in progress")
)

// State is the lifecycle of the interactive search
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateSuccess   State = "success"
	StateFailure   State = "failure"
)

// Log threads
const (
	ThreadSystem   = "System"
	ThreadSearch   = "Google Search"
	ThreadAnalysis = "Analysis"
)

// Status feed timing before scaling
const (
	revealDelay = 800 * time.Millisecond
)

type cosmeticStep struct {
	delay   time.Duration
	thread  string
	message string
	status  models.LogStatus
}

// progress lines shown while the provider call runs. They are not tied to its real progress.
var cosmeticTimeline = []cosmeticStep{
	{500 * time.Millisecond, ThreadSearch, "Querying live index for YouTube, Reddit, Instagram...", models.LogInfo},
	{1200 * time.Millisecond, ThreadSearch, "Filtering results for recent discussions...", models.LogInfo},
	{2500 * time.Millisecond, ThreadAnalysis, "Extracting snippets from search results...", models.LogInfo},
	{3500 * time.Millisecond, ThreadAnalysis, "Evaluating sentiment and engagement...", models.LogWarning},
}

// Analyzer runs one brand analysis
type Analyzer interface {
	Analyze(ctx context.Context, brandName string) (*models.AnalysisResult, audit.Outcome)
}

// EventType identifies a streamed session event
type EventType string

const (
	EventReset EventType = "reset"
	EventLog   EventType = "log"
	EventState EventType = "state"
)

// Event is pushed to subscribers on every change
type Event struct {
	Type   EventType              `json:"type"`
	State  State                  `json:"state"`
	Query  string                 `json:"query,omitempty"`
	Log    *models.LogEntry       `json:"log,omitempty"`
	Result *models.AnalysisResult `json:"result,omitempty"`
}

// Snapshot is a point-in-time copy of the session
type Snapshot struct {
	State  State                  `json:"state"`
	Query  string                 `json:"query"`
	Result *models.AnalysisResult `json:"result"`
	Logs   []models.LogEntry      `json:"logs"`
}

// Store drives a single interactive search and its status feed
type Store struct {
	analyzer   Analyzer
	delayScale float64
	now        func() time.Time

	mu          sync.Mutex
	state       State
	query       string
	result      *models.AnalysisResult
	logs        []models.LogEntry
	generation  uint64
	subscribers map[chan Event]struct{}

	wg sync.WaitGroup
}

// NewStore creates an idle session. delayScale multiplies every feed delay; 0 disables them.
func NewStore(analyzer Analyzer, delayScale float64) *Store {
	if delayScale < 0 {
		delayScale = 0
	}
	return &Store{
		analyzer:    analyzer,
		delayScale:  delayScale,
		now:         time.Now,
		state:       StateIdle,
		logs:        []models.LogEntry{},
		subscribers: make(map[chan Event]struct{}),
	}
}

// Submit starts a search for query. It returns immediately; progress arrives as events.
func (s *Store) Submit(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	if s.state == StateSearching {
		s.mu.Unlock()
		return ErrSearchInFlight
	}

	s.generation++
	generation := s.generation
	s.state = StateSearching
	metrics.SearchInFlight.Set(1)
	s.query = query
	s.result = nil
	s.logs = []models.LogEntry{}
	s.broadcastLocked(Event{Type: EventReset, State: s.state, Query: query})
	s.appendLogLocked(ThreadSystem, "Initializing Search Agent...", models.LogInfo)
	s.mu.Unlock()

	logrus.Infof("Search started for %q", query)

	for _, step := range cosmeticTimeline {
		step := step
		time.AfterFunc(s.scaled(step.delay), func() {
			s.appendLog(generation, step.thread, step.message, step.status)
		})
	}

	s.wg.Add(1)
	go s.run(generation, query)

	return nil
}

func (s *Store) run(generation uint64, query string) {
	defer s.wg.Done()

	result, outcome := s.analyzer.Analyze(context.Background(), query)

	s.appendLog(generation, ThreadSystem, "Live data retrieval complete.", models.LogSuccess)
	s.appendLog(generation, ThreadSystem, fmt.Sprintf("Found %d verified sources.", len(result.Sources)), models.LogSuccess)
	s.appendLog(generation, ThreadSystem, "Aggregating final report...", models.LogInfo)
	if outcome.Failed {
		s.appendLog(generation, ThreadSystem, "Critical Error during analysis", models.LogError)
	}

	if delay := s.scaled(revealDelay); delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}

	metrics.SearchInFlight.Set(0)
	s.result = result
	if outcome.Failed {
		s.state = StateFailure
	} else {
		s.state = StateSuccess
	}
	s.broadcastLocked(Event{Type: EventState, State: s.state, Query: s.query, Result: result})

	logrus.Infof("Search for %q finished with state %s in %v", query, s.state, outcome.Duration)
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]models.LogEntry, len(s.logs))
	copy(logs, s.logs)

	return Snapshot{
		State:  s.state,
		Query:  s.query,
		Result: s.result,
		Logs:   logs,
	}
}

// Result returns the published result, or nil while none is available
func (s *Store) Result() *models.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Subscribe registers for session events. Call the returned func to unsubscribe.
// Events are dropped for subscribers that do not keep up.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Wait blocks until every launched analysis has published
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * s.delayScale)
}

// appendLog adds a line unless a newer search has replaced the one that scheduled it
func (s *Store) appendLog(generation uint64, thread, message string, status models.LogStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}
	s.appendLogLocked(thread, message, status)
}

func (s *Store) appendLogLocked(thread, message string, status models.LogStatus) {
	entry := models.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		Thread:    thread,
		Message:   message,
		Status:    status,
	}
	s.logs = append(s.logs, entry)
	s.broadcastLocked(Event{Type: EventLog, State: s.state, Log: &entry})
}

func (s *Store) broadcastLocked(event Event) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			logrus.Debug("Dropping session event for slow subscriber")
		}
	}
}
