// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bookspring/impact-dashboard-tui/internal/logger"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// GoalBar renders a goal progress bar with label and percentage.
type GoalBar struct {
	progress       progress.Model
	label          string
	percent        float64
	animationFrame int
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewGoalBar creates a new goal bar with gradient colors.
func NewGoalBar() GoalBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#2bb673"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return GoalBar{
		progress:       p,
		label:          "",
		percent:        0,
		animationFrame: 0,
		isAnimating:    false,
		targetPercent:  0,
		currentPercent: 0,
	}
}

// NewGoalBarWithWidth creates a goal bar with a specific width.
func NewGoalBarWithWidth(width int) GoalBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#2bb673"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return GoalBar{
		progress:       p,
		label:          "",
		percent:        0,
		animationFrame: 0,
		isAnimating:    false,
		targetPercent:  0,
		currentPercent: 0,
	}
}

// Init initializes the progress bar model.
func (g GoalBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (g GoalBar) Update(msg tea.Msg) (GoalBar, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case AnimationTickMsg:
		if g.isAnimating {
			g.animationFrame++

			if g.currentPercent < g.targetPercent {
				step := (g.targetPercent - g.currentPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				g.currentPercent += step
				if g.currentPercent > g.targetPercent {
					g.currentPercent = g.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else if g.currentPercent > g.targetPercent {
				step := (g.currentPercent - g.targetPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				g.currentPercent -= step
				if g.currentPercent < g.targetPercent {
					g.currentPercent = g.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else {
				g.isAnimating = false
			}
		}
	}

	var cmd tea.Cmd
	model, cmd := g.progress.Update(msg)
	g.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return g, tea.Batch(cmds...)
}

// SetPercent sets the current percentage.
func (g *GoalBar) SetPercent(percent float64) tea.Cmd {
	g.percent = percent
	g.targetPercent = percent

	if !g.isAnimating {
		g.isAnimating = true
		g.animationFrame = 0
		return tea.Batch(
			g.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return g.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (g *GoalBar) SetLabel(label string) {
	g.label = label
}

// SetWidth sets the progress bar width.
func (g *GoalBar) SetWidth(width int) {
	g.progress.Width = width
}

// View renders the goal bar with percentage and label.
func (g GoalBar) View(percent float64, label string, width int) string {
	// Update the progress bar width
	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	g.progress.Width = barWidth

	// Render the progress bar
	bar := g.progress.ViewAs(percent / 100)

	// Format percentage with color
	percentStyle := styles.GetProgressStyle(percent)
	percentStr := percentStyle.Width(6).Align(lipgloss.Right).Render(fmt.Sprintf("%.0f%%", percent))

	// Render label
	labelStyle := styles.ProgressLabelStyle
	labelStr := labelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// ViewCompact renders a compact version without label.
func (g GoalBar) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	g.progress.Width = barWidth

	bar := g.progress.ViewAs(percent / 100)
	percentStyle := styles.GetProgressStyle(percent)
	percentStr := percentStyle.Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// ViewUndefined renders a bar for a metric whose target yields no percentage.
func (g GoalBar) ViewUndefined(label string, width int) string {
	labelStyle := styles.ProgressLabelStyle
	labelStr := labelStyle.Width(15).Render(label)

	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	emptyBar := lipgloss.NewStyle().
		Foreground(styles.Subtle).
		Render(strings.Repeat("░", barWidth))

	statusStr := styles.UndefinedMetricStyle.
		Width(6).
		Align(lipgloss.Right).
		Render("n/a")

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		emptyBar,
		" ",
		statusStr,
	)
}

// FiscalYearBar renders a time-based progress bar for fiscal year elapsed.
type FiscalYearBar struct {
	progress progress.Model
}

// NewFiscalYearBar creates a new bar for visualizing fiscal year progress.
func NewFiscalYearBar() FiscalYearBar {
	p := progress.New(
		progress.WithScaledGradient("#ffd93d", "#2bb673"), // Yellow to green
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return FiscalYearBar{
		progress: p,
	}
}

// RenderFiscalYearBarChars renders just the bar characters for a fiscal year bar.
func RenderFiscalYearBarChars(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ffd93d", "#2bb673", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// FiscalYearElapsed returns the fraction of the fiscal year elapsed at t.
func FiscalYearElapsed(t time.Time) float64 {
	start := models.FiscalYearStart(t)
	end := start.AddDate(1, 0, 0)
	total := end.Sub(start)
	if total <= 0 {
		return 0
	}
	elapsed := t.Sub(start).Seconds() / total.Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > 1 {
		elapsed = 1
	}
	return elapsed
}

// ViewWithLabel renders the fiscal year bar with label padding to align with goal bars.
// The bar fills as the fiscal year elapses.
func (f FiscalYearBar) ViewWithLabel(now time.Time, label string, width int) string {
	elapsed := FiscalYearElapsed(now)

	start := models.FiscalYearStart(now)
	end := start.AddDate(1, 0, 0)
	daysLeft := int(end.Sub(now).Hours() / 24)
	if daysLeft < 0 {
		daysLeft = 0
	}
	timeStr := fmt.Sprintf("%dd left", daysLeft)

	labelWidth := len(label)
	percentWidth := 9
	barWidth := width - (labelWidth + 1) - percentWidth - 2

	if barWidth < 10 {
		barWidth = 10
	}

	bar := RenderFiscalYearBarChars(elapsed, barWidth)
	labelPadding := strings.Repeat(" ", labelWidth)

	timeStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(percentWidth).
		Align(lipgloss.Right)

	return fmt.Sprintf("%s [%s] %s", labelPadding, bar, timeStyle.Render(timeStr))
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ff6b6b", "#2bb673", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleGoalBar renders a simple ASCII progress bar with gradient colors.
func SimpleGoalBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetProgressStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}

func SimpleGoalBarLoading(label string, width int, frame int) string {
	const (
		indentWidth  = 4
		percentWidth = 6
		actualWidth  = 10
		badgeWidth   = 10
	)

	rightSideWidth := percentWidth + actualWidth + badgeWidth
	barWidth := width - indentWidth - rightSideWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	accentColor := styles.Primary
	if strings.Contains(strings.ToLower(label), "engagement") {
		accentColor = styles.Secondary
	}

	cycle := 120

	t := float64(frame%cycle) / float64(cycle)
	var p float64
	if t < 0.5 {
		p = t * 2
	} else {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))
	var barChars []string

	for i := 0; i < barWidth; i++ {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style

		if dist < 3 {
			char = "▓"
			style = lipgloss.NewStyle().Foreground(accentColor)
		} else if dist < 5 {
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		} else {
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}

		barChars = append(barChars, style.Render(char))
	}

	bar := strings.Join(barChars, "")

	indent := "    "

	dots := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dot := dots[(frame/2)%len(dots)]

	loadingStr := lipgloss.NewStyle().
		Width(percentWidth).
		Align(lipgloss.Right).
		Foreground(accentColor).
		Render(dot)

	actualStr := lipgloss.NewStyle().Width(actualWidth).Render("")
	badgeStr := lipgloss.NewStyle().Width(badgeWidth).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Left,
		indent,
		bar,
		" ",
		loadingStr,
		" ",
		actualStr,
		" ",
		badgeStr,
	)
}
