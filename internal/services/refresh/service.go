// Package refresh runs the fetch-normalize-assemble pipeline on a timer and
// caches the resulting report bundle for the UI and the exporter.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/config"
	"github.com/bookspring/impact-dashboard-tui/internal/logger"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/normalize"
	"github.com/bookspring/impact-dashboard-tui/internal/report"
)

// Fetcher pulls raw records for one Fusioo collection. The API client
// satisfies it; tests substitute a canned implementation.
type Fetcher interface {
	FetchAllRecords(ctx context.Context, source models.Source, appID string) ([]models.RawRecord, error)
}

// TargetsProvider supplies the goal targets a bundle is scored against.
type TargetsProvider interface {
	Targets() models.GoalTargets
}

// Event represents a refresh service event.
type Event struct {
	Error  error
	Bundle *models.ReportBundle
	Type   EventType
}

// EventType defines the type of refresh event.
type EventType int

const (
	// EventBundleUpdated indicates a new report bundle is available.
	EventBundleUpdated EventType = iota
	// EventRefreshing indicates a pipeline run is in progress.
	EventRefreshing
	// EventRefreshError indicates the pipeline run failed.
	EventRefreshError
)

// Config holds configuration for the refresh service.
type Config struct {
	Apps         config.AppIDs
	PollInterval time.Duration
	Unit         models.TimeUnit
	Cutoff       time.Time
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 15 * time.Minute,
		Unit:         models.UnitMonth,
		Cutoff:       normalize.DefaultCutoff,
	}
}

// Service manages pipeline runs and bundle caching.
type Service struct {
	fetcher    Fetcher
	targets    TargetsProvider
	bundle     *models.ReportBundle
	input      report.Input
	haveInput  bool
	lastErr    error
	eventChan  chan Event
	stopChan   chan struct{}
	pollTicker *time.Ticker
	refreshSem chan struct{}
	config     Config
	mu         sync.RWMutex
}

// New creates a new refresh service and starts its polling goroutine.
func New(fetcher Fetcher, targets TargetsProvider, config Config) *Service {
	if config.PollInterval == 0 {
		def := DefaultConfig()
		config.PollInterval = def.PollInterval
	}
	if config.Cutoff.IsZero() {
		config.Cutoff = normalize.DefaultCutoff
	}

	s := &Service{
		fetcher:    fetcher,
		targets:    targets,
		eventChan:  make(chan Event, 100),
		stopChan:   make(chan struct{}),
		config:     config,
		refreshSem: make(chan struct{}, 1),
	}

	// Start polling goroutine
	go s.poll()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Bundle returns the most recently assembled bundle, or nil before the
// first successful refresh.
func (s *Service) Bundle() *models.ReportBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// BundleFor reassembles the cached pipeline input at a different time unit
// without refetching. It returns nil before the first successful refresh.
func (s *Service) BundleFor(unit models.TimeUnit) *models.ReportBundle {
	s.mu.RLock()
	in, ok := s.input, s.haveInput
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.assemble(in, unit)
}

// Refresh runs the full pipeline: fetch every collection, normalize, and
// assemble a fresh bundle. Concurrent calls coalesce; the loser shares the
// winner's outcome, falling back to the cached bundle when the winner failed.
func (s *Service) Refresh(ctx context.Context) (*models.ReportBundle, error) {
	select {
	case s.refreshSem <- struct{}{}:
	default:
		// A refresh is already running; wait for it to finish.
		s.refreshSem <- struct{}{}
		<-s.refreshSem
		s.mu.RLock()
		bundle, lastErr := s.bundle, s.lastErr
		s.mu.RUnlock()
		if bundle != nil {
			return bundle, nil
		}
		return nil, lastErr
	}
	defer func() { <-s.refreshSem }()

	s.sendEvent(Event{Type: EventRefreshing})

	in, err := s.collect(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.sendEvent(Event{Type: EventRefreshError, Error: err})
		return nil, err
	}

	bundle := s.assemble(in, s.config.Unit)

	s.mu.Lock()
	s.bundle = bundle
	s.input = in
	s.haveInput = true
	s.lastErr = nil
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventBundleUpdated, Bundle: bundle})
	return bundle, nil
}

// Rebuild reassembles the cached input with the current goal targets. Cheap;
// used when targets change between refreshes.
func (s *Service) Rebuild() *models.ReportBundle {
	s.mu.RLock()
	in, ok := s.input, s.haveInput
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	bundle := s.assemble(in, s.config.Unit)

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventBundleUpdated, Bundle: bundle})
	return bundle
}

// collect fetches the five collections and normalizes them. A partner-sites
// failure degrades partner enrichment instead of failing the whole run.
func (s *Service) collect(ctx context.Context) (report.Input, error) {
	apps := s.config.Apps

	current, err := s.fetcher.FetchAllRecords(ctx, models.SourceActivity, apps.ActivityReports)
	if err != nil {
		return report.Input{}, err
	}
	legacy, err := s.fetcher.FetchAllRecords(ctx, models.SourceLegacy, apps.LegacyData)
	if err != nil {
		return report.Input{}, err
	}
	rawViews, err := s.fetcher.FetchAllRecords(ctx, models.SourceContentViews, apps.ContentViews)
	if err != nil {
		return report.Input{}, err
	}
	rawBooks, err := s.fetcher.FetchAllRecords(ctx, models.SourceOriginalBooks, apps.OriginalBooks)
	if err != nil {
		return report.Input{}, err
	}

	var partners []models.PartnerRecord
	rawPartners, err := s.fetcher.FetchAllRecords(ctx, models.SourcePartners, apps.PartnerSites)
	if err != nil {
		logger.Warn("partner sites fetch failed, continuing without partner data", "error", err)
	} else {
		partners = normalize.Partners(rawPartners)
	}

	records, warnings := normalize.Merge(current, legacy, s.config.Cutoff)
	views, viewWarnings := normalize.ContentViews(rawViews)
	warnings = append(warnings, viewWarnings...)

	return report.Input{
		Records:  records,
		Views:    views,
		Books:    normalize.OriginalBooks(rawBooks),
		Partners: partners,
		Warnings: warnings,
	}, nil
}

func (s *Service) assemble(in report.Input, unit models.TimeUnit) *models.ReportBundle {
	targets := models.DefaultGoalTargets()
	if s.targets != nil {
		targets = s.targets.Targets()
	}

	now := time.Now()
	return report.Assemble(in, report.Options{
		Window:  models.TrailingYear(now),
		Unit:    unit,
		Targets: targets,
		Compare: true,
		Now:     now,
	})
}

// poll runs the background polling goroutine.
func (s *Service) poll() {
	if _, err := s.Refresh(context.Background()); err != nil {
		logger.Error("initial refresh failed", "error", err)
	}

	s.pollTicker = time.NewTicker(s.config.PollInterval)
	defer s.pollTicker.Stop()

	for {
		select {
		case <-s.pollTicker.C:
			if _, err := s.Refresh(context.Background()); err != nil {
				logger.Error("scheduled refresh failed", "error", err)
			}
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the service and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}

// Stats returns statistics about the refresh service.
type Stats struct {
	LastGenerated time.Time
	RecordCount   int
	LegacyCount   int
	WarningCount  int
	HaveBundle    bool
}

// GetStats returns current statistics.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{HaveBundle: s.bundle != nil}
	if s.bundle != nil {
		stats.LastGenerated = s.bundle.GeneratedAt
		stats.RecordCount = s.bundle.RecordCount
		stats.LegacyCount = s.bundle.LegacyCount
		stats.WarningCount = s.bundle.WarningCount
	}
	return stats
}
