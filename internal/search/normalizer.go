// Package search normalizes loose natural-language history queries into a
// validated, bounded query descriptor safe to hand to the message store.
package search

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/textutil"
)

const (
	// DateToday, DateYesterday and DateNow are the accepted relative date
	// keywords; anything else must be a strict YYYY-MM-DD calendar date.
	DateToday     = "today"
	DateYesterday = "yesterday"
	DateNow       = "now"

	// SenderAll is the sentinel for "no sender filter".
	SenderAll = "all"

	defaultStartTime = "00:00"
	defaultEndTime   = "23:59"

	defaultLimit = 50
	maxLimit     = 200
	maxKeywords  = 10

	isoDateLayout = "2006-01-02"

	// Ranges wider than this are allowed but worth flagging: the store
	// caps result counts, so a huge window rarely returns what the owner
	// expects.
	wideRangeDays = 30
)

var timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Params is the loosely-specified input of a history query. StartDate and
// EndDate are required; every other field has a documented default. A zero
// Limit means "unset" and defaults silently; explicit non-positive values
// draw a warning.
type Params struct {
	StartDate string   `json:"start_date" form:"start_date"`
	EndDate   string   `json:"end_date" form:"end_date"`
	StartTime string   `json:"start_time" form:"start_time"`
	EndTime   string   `json:"end_time" form:"end_time"`
	Sender    string   `json:"sender" form:"sender"`
	Keywords  []string `json:"keywords" form:"keywords"`
	Limit     int      `json:"limit" form:"limit"`
}

// Query is the canonical, validated descriptor. Its string fields are a
// fixed point of normalization: feeding them back through the normalizer
// yields the same descriptor. StartsAt and EndsAt are the window resolved
// against the clock at validation time, for the storage layer.
type Query struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Sender    string   `json:"sender"`
	Keywords  []string `json:"keywords"`
	Limit     int      `json:"limit"`

	StartsAt time.Time `json:"-"`
	EndsAt   time.Time `json:"-"`
}

// Result is the outcome of validating a query. Valid is true iff Errors is
// empty; Query is populated only then. Warnings are advisory and never block
// validity.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Query    *Query   `json:"normalized,omitempty"`
}

// Normalizer validates and canonicalizes history query parameters. It is
// stateless apart from the injected clock and safe for concurrent use.
type Normalizer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewNormalizer creates a normalizer using the wall clock.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger, now: time.Now}
}

// ValidateAndNormalize checks every field, then the cross-field date range,
// and returns either a fully-populated canonical descriptor or the list of
// errors. It never returns a partial descriptor, and it never panics: an
// unexpected internal failure is funneled into the error list.
func (n *Normalizer) ValidateAndNormalize(p Params) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Query normalization panicked", zap.Any("panic", r))
			result = Result{
				Valid:    false,
				Errors:   []string{fmt.Sprintf("internal error normalizing query: %v", r)},
				Warnings: []string{},
			}
		}
	}()

	errors := []string{}
	warnings := []string{}
	q := Query{}

	startOK := n.normalizeDate("start_date", p.StartDate, &q.StartDate, &errors)
	endOK := n.normalizeDate("end_date", p.EndDate, &q.EndDate, &errors)
	n.normalizeTime("start_time", p.StartTime, defaultStartTime, &q.StartTime, &errors)
	n.normalizeTime("end_time", p.EndTime, defaultEndTime, &q.EndTime, &errors)

	q.Sender = textutil.SanitizeDisplay(p.Sender)
	if q.Sender == "" {
		q.Sender = SenderAll
	}

	q.Keywords = normalizeKeywords(p.Keywords, &warnings)

	q.Limit = normalizeLimit(p.Limit, &warnings)

	if startOK && endOK && len(errors) == 0 {
		now := n.now()
		q.StartsAt = resolveInstant(q.StartDate, q.StartTime, now)
		q.EndsAt = resolveInstant(q.EndDate, q.EndTime, now)

		if q.StartsAt.After(q.EndsAt) {
			errors = append(errors, "invalid range: start date/time cannot be after end date/time")
		} else if q.StartsAt.After(now) {
			errors = append(errors, "invalid range: start date/time is in the future")
		} else if q.EndsAt.Sub(q.StartsAt) > wideRangeDays*24*time.Hour {
			warnings = append(warnings, fmt.Sprintf("date range exceeds %d days; results may be limited", wideRangeDays))
		}
	}

	if len(errors) > 0 {
		return Result{Valid: false, Errors: errors, Warnings: warnings}
	}
	return Result{Valid: true, Errors: errors, Warnings: warnings, Query: &q}
}

// normalizeDate accepts the relative keywords or a strict ISO calendar date.
func (n *Normalizer) normalizeDate(field, value string, out *string, errors *[]string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		*errors = append(*errors, fmt.Sprintf("%s is required (accepted: today, yesterday, now, or YYYY-MM-DD)", field))
		return false
	}
	switch strings.ToLower(value) {
	case DateToday, DateYesterday, DateNow:
		*out = strings.ToLower(value)
		return true
	}
	parsed, err := time.Parse(isoDateLayout, value)
	if err != nil || parsed.Format(isoDateLayout) != value {
		*errors = append(*errors, fmt.Sprintf("%s %q is not valid (accepted: today, yesterday, now, or YYYY-MM-DD)", field, value))
		return false
	}
	*out = value
	return true
}

// normalizeTime accepts strict 24-hour HH:MM, defaulting when unset.
func (n *Normalizer) normalizeTime(field, value, fallback string, out *string, errors *[]string) {
	value = strings.TrimSpace(value)
	if value == "" {
		*out = fallback
		return
	}
	if !timeRe.MatchString(value) {
		*errors = append(*errors, fmt.Sprintf("%s %q is not valid (expected 24-hour HH:MM)", field, value))
		return
	}
	*out = value
}

// normalizeKeywords sanitizes each entry, drops empties and caps the list.
func normalizeKeywords(raw []string, warnings *[]string) []string {
	keywords := make([]string, 0, len(raw))
	dropped := false
	for _, kw := range raw {
		kw = textutil.SanitizeDisplay(kw)
		if kw == "" {
			dropped = true
			continue
		}
		if len(keywords) == maxKeywords {
			dropped = true
			continue
		}
		keywords = append(keywords, kw)
	}
	if dropped {
		*warnings = append(*warnings, fmt.Sprintf("keyword list truncated: keeping %d valid keywords", len(keywords)))
	}
	return keywords
}

// normalizeLimit bounds the result count to [1, maxLimit].
func normalizeLimit(limit int, warnings *[]string) int {
	switch {
	case limit == 0:
		return defaultLimit
	case limit < 0:
		*warnings = append(*warnings, fmt.Sprintf("limit must be positive; using default %d", defaultLimit))
		return defaultLimit
	case limit > maxLimit:
		*warnings = append(*warnings, fmt.Sprintf("limit clamped to maximum %d", maxLimit))
		return maxLimit
	default:
		return limit
	}
}

// resolveInstant turns a canonical date plus HH:MM into an absolute instant.
// Relative keywords resolve against the supplied clock reading; "now" means
// the current moment regardless of the time-of-day field.
func resolveInstant(date, hhmm string, now time.Time) time.Time {
	var base time.Time
	switch date {
	case DateNow:
		return now
	case DateToday:
		base = midnight(now)
	case DateYesterday:
		base = midnight(now).AddDate(0, 0, -1)
	default:
		parsed, err := time.ParseInLocation(isoDateLayout, date, now.Location())
		if err != nil {
			// Unreachable after field validation; keep the zero value
			// from poisoning the range check.
			return now
		}
		base = parsed
	}
	var hour, minute int
	fmt.Sscanf(hhmm, "%d:%d", &hour, &minute)
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
