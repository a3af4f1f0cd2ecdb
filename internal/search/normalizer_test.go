package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestNormalizer pins the clock so relative keywords and the future-start
// check stay deterministic.
func newTestNormalizer(t *testing.T, now time.Time) *Normalizer {
	t.Helper()
	n := NewNormalizer(zap.NewNop())
	n.now = func() time.Time { return now }
	return n
}

var testNow = time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

func TestValidateMinimalQuery(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	result := n.ValidateAndNormalize(Params{StartDate: "today", EndDate: "today"})
	require.True(t, result.Valid, "errors: %v", result.Errors)
	require.NotNil(t, result.Query)

	q := result.Query
	assert.Equal(t, "today", q.StartDate)
	assert.Equal(t, "today", q.EndDate)
	assert.Equal(t, "00:00", q.StartTime)
	assert.Equal(t, "23:59", q.EndTime)
	assert.Equal(t, SenderAll, q.Sender)
	assert.Empty(t, q.Keywords)
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), q.StartsAt)
	assert.Equal(t, time.Date(2024, 6, 12, 23, 59, 0, 0, time.UTC), q.EndsAt)
}

func TestDateFieldValidation(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	cases := []struct {
		name  string
		start string
		end   string
		valid bool
	}{
		{"keywords", "yesterday", "today", true},
		{"case insensitive", "Today", "NOW", true},
		{"iso dates", "2024-06-01", "2024-06-10", true},
		{"missing start", "", "today", false},
		{"missing end", "today", "", false},
		{"free text", "last tuesday", "today", false},
		{"wrong format", "06/01/2024", "today", false},
		{"impossible date", "2024-02-30", "today", false},
		{"non-padded", "2024-6-1", "today", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := n.ValidateAndNormalize(Params{StartDate: tc.start, EndDate: tc.end})
			assert.Equal(t, tc.valid, result.Valid, "errors: %v", result.Errors)
			if !tc.valid {
				assert.Nil(t, result.Query)
				require.NotEmpty(t, result.Errors)
				assert.Contains(t, result.Errors[0], "YYYY-MM-DD")
			}
		})
	}
}

func TestTimeFieldValidation(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	good := []string{"00:00", "09:15", "23:59"}
	for _, v := range good {
		result := n.ValidateAndNormalize(Params{StartDate: "yesterday", EndDate: "today", StartTime: v})
		assert.True(t, result.Valid, "time %q, errors: %v", v, result.Errors)
	}

	bad := []string{"24:00", "12:60", "9:15", "12", "noonish", "12:5"}
	for _, v := range bad {
		result := n.ValidateAndNormalize(Params{StartDate: "yesterday", EndDate: "today", StartTime: v})
		assert.False(t, result.Valid, "time %q", v)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "HH:MM")
	}
}

func TestStartAfterEndIsRejected(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	result := n.ValidateAndNormalize(Params{StartDate: "today", EndDate: "yesterday"})
	require.False(t, result.Valid)
	assert.Nil(t, result.Query)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "after end")
}

func TestFutureStartIsRejected(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	result := n.ValidateAndNormalize(Params{StartDate: "2024-07-01", EndDate: "2024-07-02"})
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "future")
}

func TestWideRangeWarnsButStaysValid(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	result := n.ValidateAndNormalize(Params{StartDate: "2024-01-01", EndDate: "today"})
	require.True(t, result.Valid, "errors: %v", result.Errors)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "30 days")
}

func TestLimitBounds(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	cases := []struct {
		name      string
		limit     int
		want      int
		wantsWarn bool
	}{
		{"unset defaults silently", 0, 50, false},
		{"negative defaults with warning", -5, 50, true},
		{"in range", 120, 120, false},
		{"clamped", 500, 200, true},
		{"boundary", 200, 200, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := n.ValidateAndNormalize(Params{StartDate: "today", EndDate: "today", Limit: tc.limit})
			require.True(t, result.Valid, "errors: %v", result.Errors)
			assert.Equal(t, tc.want, result.Query.Limit)
			assert.Equal(t, tc.wantsWarn, len(result.Warnings) > 0, "warnings: %v", result.Warnings)
		})
	}
}

func TestSenderSanitization(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	cases := []struct {
		in   string
		want string
	}{
		{"", SenderAll},
		{"   ", SenderAll},
		{"Maria Lopez", "Maria Lopez"},
		{`  <Maria> "Lopez"  `, "Maria Lopez"},
		{`<">'`, SenderAll},
	}
	for _, tc := range cases {
		result := n.ValidateAndNormalize(Params{StartDate: "today", EndDate: "today", Sender: tc.in})
		require.True(t, result.Valid, "sender %q, errors: %v", tc.in, result.Errors)
		assert.Equal(t, tc.want, result.Query.Sender, "sender %q", tc.in)
	}
}

func TestKeywordSanitizationAndCap(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	t.Run("dangerous characters stripped", func(t *testing.T) {
		result := n.ValidateAndNormalize(Params{
			StartDate: "today",
			EndDate:   "today",
			Keywords:  []string{"meeting", "<script>"},
		})
		require.True(t, result.Valid, "errors: %v", result.Errors)
		assert.Equal(t, []string{"meeting", "script"}, result.Query.Keywords)
	})

	t.Run("empties dropped with warning", func(t *testing.T) {
		result := n.ValidateAndNormalize(Params{
			StartDate: "today",
			EndDate:   "today",
			Keywords:  []string{"invoice", "  ", `<">`},
		})
		require.True(t, result.Valid)
		assert.Equal(t, []string{"invoice"}, result.Query.Keywords)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0], "1 valid keyword")
	})

	t.Run("capped at ten", func(t *testing.T) {
		keywords := make([]string, 14)
		for i := range keywords {
			keywords[i] = string(rune('a' + i))
		}
		result := n.ValidateAndNormalize(Params{
			StartDate: "today",
			EndDate:   "today",
			Keywords:  keywords,
		})
		require.True(t, result.Valid)
		assert.Len(t, result.Query.Keywords, 10)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0], "10 valid keywords")
	})
}

func TestRelativeDateResolution(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	result := n.ValidateAndNormalize(Params{StartDate: "yesterday", EndDate: "now"})
	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), result.Query.StartsAt)
	assert.Equal(t, testNow, result.Query.EndsAt)
}

func TestMultipleErrorsAccumulate(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	result := n.ValidateAndNormalize(Params{
		StartDate: "whenever",
		EndDate:   "",
		StartTime: "25:00",
	})
	require.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
	assert.Nil(t, result.Query)
}

func TestNormalizedQueryIsFixedPoint(t *testing.T) {
	n := newTestNormalizer(t, testNow)

	first := n.ValidateAndNormalize(Params{
		StartDate: "Yesterday",
		EndDate:   "today",
		StartTime: "08:00",
		Sender:    `  "Maria"  `,
		Keywords:  []string{" invoice ", "<urgent>"},
		Limit:     500,
	})
	require.True(t, first.Valid, "errors: %v", first.Errors)

	second := n.ValidateAndNormalize(Params{
		StartDate: first.Query.StartDate,
		EndDate:   first.Query.EndDate,
		StartTime: first.Query.StartTime,
		EndTime:   first.Query.EndTime,
		Sender:    first.Query.Sender,
		Keywords:  first.Query.Keywords,
		Limit:     first.Query.Limit,
	})
	require.True(t, second.Valid, "errors: %v", second.Errors)
	assert.Empty(t, second.Warnings)
	assert.Equal(t, first.Query, second.Query)
}
