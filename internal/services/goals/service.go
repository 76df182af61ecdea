// Package goals manages the goal targets file with file watching and
// persistence. Edits made in the dashboard and edits made externally both
// land in the same JSON file and both produce change events.
package goals

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bookspring/impact-dashboard-tui/internal/logger"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// TargetsFile represents the JSON file structure for targets storage.
type TargetsFile struct {
	Version int               `json:"version,omitempty"`
	Targets models.GoalTargets `json:"targets"`
}

// Event represents a goals service event.
type Event struct {
	Type    EventType
	Error   error
	Targets models.GoalTargets
}

// EventType defines the type of goals event.
type EventType int

const (
	EventTargetsLoaded EventType = iota
	EventTargetsChanged
	EventError
)

// Service manages goal targets with file watching and change notifications.
type Service struct {
	mu            sync.RWMutex
	targets       models.GoalTargets
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// defaultTargetsPath returns the default targets file path.
func defaultTargetsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "idt", "goals.json")
}

// New creates a new goals service and starts file watching. A missing file
// is created with the default targets.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		filePath = defaultTargetsPath()
	}

	s := &Service{
		targets:   models.DefaultGoalTargets(),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	// Ensure directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load targets from file
	if err := s.loadTargets(); err != nil {
		// If file doesn't exist, create it with defaults
		if os.IsNotExist(err) {
			if err := s.saveTargets(); err != nil {
				return nil, fmt.Errorf("failed to create targets file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to load targets: %w", err)
		}
	}

	// Start file watcher
	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventTargetsLoaded, Targets: s.Targets()})

	return s, nil
}

// Events returns the event channel for subscribing to target changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Targets returns the current goal targets.
func (s *Service) Targets() models.GoalTargets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targets
}

// SetTargets validates, stores, and persists new goal targets.
func (s *Service) SetTargets(targets models.GoalTargets) error {
	if err := validateTargets(targets); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.targets
	s.targets = targets

	if err := s.saveTargetsLocked(); err != nil {
		// Rollback
		s.targets = old
		s.mu.Unlock()
		return fmt.Errorf("failed to save targets: %w", err)
	}
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventTargetsChanged, Targets: targets})
	return nil
}

// FilePath returns the path of the backing targets file.
func (s *Service) FilePath() string {
	return s.filePath
}

func validateTargets(targets models.GoalTargets) error {
	if targets.BooksPerChild <= 0 {
		return fmt.Errorf("books-per-child target must be positive, got %v", targets.BooksPerChild)
	}
	if targets.ContentViews <= 0 {
		return fmt.Errorf("content views target must be positive, got %v", targets.ContentViews)
	}
	if targets.AnnualBooks <= 0 {
		return fmt.Errorf("annual books target must be positive, got %v", targets.AnnualBooks)
	}
	return nil
}

// parseTargets parses target data handling both file formats.
func (s *Service) parseTargets(data []byte) (models.GoalTargets, error) {
	// 1. Try the wrapped format
	var file TargetsFile
	if err := json.Unmarshal(data, &file); err == nil && file.Targets != (models.GoalTargets{}) {
		if err := validateTargets(file.Targets); err != nil {
			return models.GoalTargets{}, err
		}
		return file.Targets, nil
	}

	// 2. Try a bare targets object
	var targets models.GoalTargets
	if err := json.Unmarshal(data, &targets); err == nil && targets != (models.GoalTargets{}) {
		if err := validateTargets(targets); err != nil {
			return models.GoalTargets{}, err
		}
		return targets, nil
	}

	return models.GoalTargets{}, fmt.Errorf("failed to parse targets file: invalid format")
}

// loadTargets loads targets from the JSON file.
func (s *Service) loadTargets() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	targets, err := s.parseTargets(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.targets = targets
	s.mu.Unlock()
	return nil
}

// saveTargets saves targets to the JSON file (public version).
func (s *Service) saveTargets() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveTargetsLocked()
}

// saveTargetsLocked saves targets to the JSON file (must hold lock).
func (s *Service) saveTargetsLocked() error {
	file := TargetsFile{
		Version: 1,
		Targets: s.targets,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal targets: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our targets file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			// Handle write/create events
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads targets from file after an external change.
func (s *Service) handleFileChange() {
	if err := s.loadTargets(); err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.sendEvent(Event{Type: EventTargetsChanged, Targets: s.Targets()})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
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

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
