package report

import (
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-wecomflow/pkg/controls"
)

// ReminderLimit caps a reminder message, in code points.
const ReminderLimit = 1800

// reminderSamples is how many sample approvals a message lists.
const reminderSamples = 8

// TypeCount is the number of pending approvals of one template name.
type TypeCount struct {
	Name  string
	Count int
}

// Sample identifies one pending approval.
type Sample struct {
	SpNo   string
	SpName string
}

// Reminder is the pending work of one approver.
type Reminder struct {
	Total   int
	ByType  []TypeCount
	Samples []Sample
}

// Check is one line of the health summary.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// MissingFields renders the advisory listing required controls that were
// left unfilled. It returns "" when nothing is missing.
func (e *Engine) MissingFields(missing []controls.Control) (string, error) {
	if len(missing) == 0 {
		return "", nil
	}
	return e.Render("missing", pongo2.Context{"missing": missing})
}

// Reminder renders the message sent to one approver, capped at
// ReminderLimit code points.
func (e *Engine) Reminder(r Reminder, now time.Time) (string, error) {
	samples := r.Samples
	if len(samples) > reminderSamples {
		samples = samples[:reminderSamples]
	}
	out, err := e.Render("reminder", pongo2.Context{
		"total":   r.Total,
		"by_type": r.ByType,
		"samples": samples,
		"now":     now.Format("2006/1/2 15:04:05"),
	})
	if err != nil {
		return "", err
	}
	return clip(strings.TrimRight(out, "\n"), ReminderLimit), nil
}

// Health renders the health summary.
func (e *Engine) Health(checks []Check) (string, error) {
	return e.Render("health", pongo2.Context{"checks": checks})
}

// Mask hides all but keep leading and trailing characters of value. Values
// too short to keep both ends are fully starred.
func Mask(value string, keep int) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= keep*2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:keep]) + "..." + string(runes[len(runes)-keep:])
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
