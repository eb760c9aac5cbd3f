// Package render draws the dashboard pieces with lipgloss.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/period"
	"github.com/dustin/go-humanize"
)

const (
	riskWidth            = 8
	locationWidth        = 16
	personWidth          = 18
	ageWidth             = 14
	spacesBetweenColumns = 8
	defaultTitleWidth    = 30
	minTitleWidth        = 10
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color(ansiColorNumber(colors.Blue))).Foreground(lipgloss.Color("0"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	badgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color(ansiColorNumber(colors.Red))).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true)
)

// AlertRow defines the inputs needed to render an alert row.
type AlertRow struct {
	Alert    domain.Alert
	Width    int
	Selected bool
	Now      time.Time
}

// NotificationRow defines the inputs needed to render a notification row.
type NotificationRow struct {
	Notification domain.Notification
	Width        int
	Selected     bool
	Now          time.Time
}

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	SearchMode  bool
	RangeMode   bool
	Editable    bool
	FocusNotifs bool
}

// Header renders the alert table header.
func Header(width int) string {
	title := titleWidth(width)
	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s",
		riskWidth, "RISK",
		title, "TITLE",
		personWidth, "PERSON",
		locationWidth, "LOCATION",
		ageWidth, "AGE",
	)
	return headerStyle.Render(header)
}

// Row renders a single alert row.
func Row(row AlertRow) string {
	title := titleWidth(row.Width)
	line := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s",
		riskWidth, riskLabel(row.Alert.Risk),
		title, truncate(row.Alert.Title, title),
		personWidth, truncate(row.Alert.PersonName, personWidth),
		locationWidth, truncate(row.Alert.Location, locationWidth),
		ageWidth, Age(row.Alert.CreatedAt, row.Now),
	)
	if row.Selected {
		return selectedStyle.Render(line)
	}
	return riskStyle(row.Alert.Risk).Render(line)
}

// Notification renders a single notification row.
func Notification(row NotificationRow) string {
	marker := " "
	if !row.Notification.Read {
		marker = "●"
	}
	msgWidth := row.Width - ageWidth - 6
	if msgWidth < minTitleWidth {
		msgWidth = defaultTitleWidth
	}
	line := fmt.Sprintf("%s %-*s  %s", marker, msgWidth, truncate(row.Notification.Message, msgWidth), Age(row.Notification.CreatedAt, row.Now))
	if row.Selected {
		return selectedStyle.Render(line)
	}
	if row.Notification.Read {
		return dimStyle.Render(line)
	}
	return line
}

// Badge renders the unread counter; it is empty when nothing is unread.
func Badge(unread int) string {
	if unread <= 0 {
		return ""
	}
	label := humanize.Comma(int64(unread))
	if unread > 99 {
		label = "99+"
	}
	return badgeStyle.Render(label)
}

// Periods renders the period selector with the active period highlighted.
func Periods(active period.Period, rng domain.DateRange) string {
	order := []period.Period{period.Daily, period.Weekly, period.Monthly, period.Custom}
	parts := make([]string, 0, len(order))
	for i, p := range order {
		label := fmt.Sprintf("%d %s", i+1, p)
		if p == active {
			label = activeTab.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ") + "  " + dimStyle.Render(RangeLabel(rng))
}

// RangeLabel renders a date range as "start → end".
func RangeLabel(rng domain.DateRange) string {
	bound := func(t time.Time) string {
		if t.IsZero() {
			return "…"
		}
		return t.Format(domain.DateLayout)
	}
	return bound(rng.Start) + " → " + bound(rng.End)
}

// Pager renders the pagination line.
func Pager(page, totalPages, total int, hasPrev, hasNext bool) string {
	if totalPages < 1 {
		totalPages = 1
	}
	prev, next := "‹ p", "n ›"
	if !hasPrev {
		prev = dimStyle.Render(prev)
	}
	if !hasNext {
		next = dimStyle.Render(next)
	}
	return fmt.Sprintf("%s  page %d of %d (%s total)  %s", prev, page, totalPages, humanize.Comma(int64(total)), next)
}

// Footer renders the footer with help text.
func Footer(state FooterState) string {
	var help []string
	switch {
	case state.SearchMode:
		help = append(help, "ESC: done", "Enter: apply now")
	case state.RangeMode:
		help = append(help, "YYYY-MM-DD YYYY-MM-DD", "Enter: apply", "ESC: cancel")
	default:
		help = append(help, "j/k: move", "n/p: page", "1-4: period")
		if state.Editable {
			help = append(help, "d: dates")
		}
		help = append(help, "/: search", "f: risk", "l: location", "tab: focus")
		if state.FocusNotifs {
			help = append(help, "Enter: mark read")
		}
		help = append(help, "r: read all", "q: quit")
	}
	return dimStyle.Render(strings.Join(help, "  |  "))
}

// Age renders how long ago t was.
func Age(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}
	return humanize.RelTime(t, now, "ago", "")
}

func riskLabel(r domain.RiskLevel) string {
	switch r {
	case domain.RiskCritical:
		return "‼ crit"
	case domain.RiskHigh:
		return "! high"
	case domain.RiskMedium:
		return "· med"
	case domain.RiskLow:
		return "· low"
	default:
		return "?"
	}
}

func riskStyle(r domain.RiskLevel) lipgloss.Style {
	switch r {
	case domain.RiskCritical, domain.RiskHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Red)))
	case domain.RiskMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	default:
		return lipgloss.NewStyle()
	}
}

func titleWidth(width int) int {
	w := width - riskWidth - personWidth - locationWidth - ageWidth - spacesBetweenColumns
	if width == 0 || w < minTitleWidth {
		return defaultTitleWidth
	}
	return w
}

func truncate(value string, width int) string {
	if utf8.RuneCountInString(value) <= width {
		return value
	}
	if width < 3 {
		return string([]rune(value)[:width])
	}
	return string([]rune(value)[:width-3]) + "..."
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
