// Package main is the entry point for the Impact Dashboard TUI application.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookspring/impact-dashboard-tui/internal/app"
	"github.com/bookspring/impact-dashboard-tui/internal/config"
	"github.com/bookspring/impact-dashboard-tui/internal/services"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/tabs/goals"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/tabs/info"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/tabs/overview"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/tabs/trends"
	"github.com/bookspring/impact-dashboard-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize the service manager
	// This starts the background services: the refresh pipeline and the
	// goals file watcher
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Initialize tabs with shared state and services
	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	tabs := []app.Tab{
		overview.New(state),           // Tab 0: Overview - goal progress
		goals.New(state),              // Tab 1: Goals - targets and editing
		trends.New(state, svcManager), // Tab 2: Trends - time series charts
		info.New(state, cfg),          // Tab 3: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 6. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 7. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 8. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Impact Dashboard TUI - BookSpring literacy program monitor

Usage:
  idt [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Overview, Goals, Trends, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select/confirm
  r               Refresh data
  e               Export Excel report
  t               Toggle trends time unit
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  FUSIOO_ACCESS_TOKEN     Fusioo API access token (required)
  FUSIOO_API_BASE         Fusioo API base URL
  IDT_REFRESH_INTERVAL    Pipeline refresh interval (default: 15m)
  IDT_GOALS_PATH          Goal targets JSON file path
  IDT_NOTIFICATIONS       Enable desktop notifications (default: true)
  LEGACY_CUTOFF           Legacy data schema boundary date (YYYY-MM-DD)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/idt/.env
  - ~/.idt/.env

For more information, visit: https://github.com/bookspring/impact-dashboard-tui`)
}
