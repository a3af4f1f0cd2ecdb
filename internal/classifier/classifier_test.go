package classifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
)

// newTestClassifier pins the clock to mid-day so the business-hours flag
// stays deterministic.
func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c := New(DefaultLexicon(), DefaultThresholds(), zap.NewNop())
	c.now = func() time.Time {
		return time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestAnalyzeAlwaysReturnsBoundedResult(t *testing.T) {
	c := newTestClassifier(t)

	inputs := []string{
		"",
		"   ",
		"hello",
		strings.Repeat("word ", 500),
		"\xff\xfe broken utf8 \xff",
		"!!!???!!!",
	}
	for _, input := range inputs {
		result := c.Analyze(input, nil)
		assert.GreaterOrEqual(t, result.Analysis.Confidence, 0.0, "input %q", input)
		assert.LessOrEqual(t, result.Analysis.Confidence, 1.0, "input %q", input)
		assert.GreaterOrEqual(t, result.Analysis.WordCount, 0, "input %q", input)
		assert.NotEmpty(t, result.Analysis.Category, "input %q", input)
		assert.NotEmpty(t, result.Analysis.Priority, "input %q", input)
	}
}

func TestAnalyzeEmptyInputDegrades(t *testing.T) {
	c := newTestClassifier(t)

	for _, input := range []string{"", "   \t\n"} {
		result := c.Analyze(input, nil)
		require.True(t, result.Degraded, "input %q", input)
		assert.NotEmpty(t, result.Reason)
		assert.Equal(t, core.CategoryOther, result.Analysis.Category)
		assert.Equal(t, core.PriorityMedium, result.Analysis.Priority)
		assert.Equal(t, 0.1, result.Analysis.Confidence)
		assert.True(t, result.Analysis.HasFlag(core.FlagAnalysisFailed))
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	c := newTestClassifier(t)

	text := "Hi, can you send me the invoice for the project before the deadline?"
	first := c.Analyze(text, nil)
	second := c.Analyze(text, nil)
	assert.Equal(t, first, second)
}

func TestAnalyzeUrgentMessage(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Analyze("URGENT! The server is down and we need immediate help!", nil)
	require.False(t, result.Degraded)
	assert.Equal(t, core.CategoryUrgent, result.Analysis.Category)
	assert.Equal(t, core.PriorityUrgent, result.Analysis.Priority)
	assert.True(t, result.Analysis.ContainsUrgentKeywords)
	assert.Greater(t, result.Analysis.Confidence, 0.0)
}

func TestAnalyzeSpamMessage(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Analyze("Congratulations! You won $1000! Click here to claim your free money now!", nil)
	require.False(t, result.Degraded)
	assert.True(t, result.Analysis.IsSpam)
	assert.Equal(t, core.CategorySpam, result.Analysis.Category)
	assert.True(t, result.Analysis.HasFlag(core.FlagContainsLinks))
	assert.Contains(t, result.Analysis.ExtractedInfo.Prices, "$1000")
}

func TestAnalyzeSpanishSupportMessage(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Analyze("Hola, necesito ayuda con un problema urgente por favor", nil)
	require.False(t, result.Degraded)
	assert.Equal(t, core.LanguageSpanish, result.Analysis.Language)
	assert.Equal(t, core.PriorityUrgent, result.Analysis.Priority)
	assert.Equal(t, core.CategorySupport, result.Analysis.Category)
}

func TestSpamOverridesCategoryButNotPriority(t *testing.T) {
	c := newTestClassifier(t)

	// Urgent phrasing plus scam phrasing: spam wins the category, urgency
	// survives in the priority.
	result := c.Analyze("URGENT: you won the lottery, click here immediately", nil)
	assert.Equal(t, core.CategorySpam, result.Analysis.Category)
	assert.Equal(t, core.PriorityUrgent, result.Analysis.Priority)
	assert.True(t, result.Analysis.IsSpam)
}

func TestSpamSignals(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		name string
		text string
		spam bool
	}{
		{"scam phrase", "You have won a prize, claim your reward", true},
		{"url flood", "check https://a.example https://b.example https://c.example", true},
		{"all caps", "THIS IS DEFINITELY NOT A SCAM AT ALL", true},
		{"punctuation run", "Buy now!!!", true},
		{"plain message", "See you at the meeting tomorrow", false},
		{"single url", "Docs are at https://docs.example.com", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Analyze(tc.text, nil)
			assert.Equal(t, tc.spam, result.Analysis.IsSpam, "text %q", tc.text)
		})
	}
}

func TestMessageTypePrecedence(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		text string
		want core.MessageType
	}{
		{"What time does the store open?", core.TypeQuestion},
		{"can you send the file", core.TypeQuestion},
		{"Hello there, nice to meet you", core.TypeGreeting},
		{"Thanks so much for everything", core.TypeGratitude},
		{"ok sounds good", core.TypeConfirmation},
		{"Please send me the report tomorrow", core.TypeRequest},
		{"The shipment arrived this morning", core.TypeStatement},
	}
	for _, tc := range cases {
		result := c.Analyze(tc.text, nil)
		assert.Equal(t, tc.want, result.Analysis.MessageType, "text %q", tc.text)
	}
}

func TestLanguageDetection(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		text string
		want core.Language
	}{
		{"Hello, thanks for the update, please review this", core.LanguageEnglish},
		{"Hola, gracias por todo, buenos días", core.LanguageSpanish},
		{"1234 5678", core.LanguageUnknown},
	}
	for _, tc := range cases {
		result := c.Analyze(tc.text, nil)
		assert.Equal(t, tc.want, result.Analysis.Language, "text %q", tc.text)
	}
}

func TestSentiment(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		text string
		want core.Sentiment
	}{
		{"This is great, excellent work, love it", core.SentimentPositive},
		{"This is terrible, the product arrived broken", core.SentimentNegative},
		{"The package arrives on Tuesday", core.SentimentNeutral},
	}
	for _, tc := range cases {
		result := c.Analyze(tc.text, nil)
		assert.Equal(t, tc.want, result.Analysis.Sentiment, "text %q", tc.text)
	}
}

func TestPriorityRules(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		name string
		text string
		want core.Priority
	}{
		{"urgent keyword", "this is an emergency", core.PriorityUrgent},
		{"importance keyword", "the deadline is tomorrow, this is important", core.PriorityHigh},
		{"shouting", "WHERE IS MY CAR", core.PriorityHigh},
		{"exclamations", "come on! answer me! hello!", core.PriorityHigh},
		{"greeting", "good morning", core.PriorityLow},
		{"gratitude", "thanks a lot", core.PriorityLow},
		{"plain statement", "the car is parked outside", core.PriorityMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Analyze(tc.text, nil)
			assert.Equal(t, tc.want, result.Analysis.Priority, "text %q", tc.text)
		})
	}
}

func TestContextualFlags(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("first contact", func(t *testing.T) {
		result := c.Analyze("hello, I got your number from Maria", &core.MessageContext{IsFirstMessage: true})
		assert.True(t, result.Analysis.HasFlag(core.FlagFirstContact))
	})

	t.Run("bot sender forces spam", func(t *testing.T) {
		result := c.Analyze("your package is on the way", &core.MessageContext{SenderName: "PromoBot 3000"})
		assert.True(t, result.Analysis.HasFlag(core.FlagPotentialBot))
		assert.True(t, result.Analysis.IsSpam)
	})

	t.Run("human sender stays clean", func(t *testing.T) {
		result := c.Analyze("your package is on the way", &core.MessageContext{SenderName: "Maria Lopez"})
		assert.False(t, result.Analysis.HasFlag(core.FlagPotentialBot))
		assert.False(t, result.Analysis.IsSpam)
	})

	t.Run("very short", func(t *testing.T) {
		result := c.Analyze("ok", nil)
		assert.True(t, result.Analysis.HasFlag(core.FlagVeryShort))
	})

	t.Run("very long", func(t *testing.T) {
		result := c.Analyze(strings.Repeat("palabra ", 150), nil)
		assert.True(t, result.Analysis.HasFlag(core.FlagVeryLong))
	})

	t.Run("contains phone", func(t *testing.T) {
		result := c.Analyze("call me at 555-123-4567", nil)
		assert.True(t, result.Analysis.HasFlag(core.FlagContainsPhone))
	})

	t.Run("contains links", func(t *testing.T) {
		result := c.Analyze("details at https://example.com/offer", nil)
		assert.True(t, result.Analysis.HasFlag(core.FlagContainsLinks))
	})
}

func TestBusinessHoursFlag(t *testing.T) {
	c := New(DefaultLexicon(), DefaultThresholds(), zap.NewNop())

	c.now = func() time.Time {
		return time.Date(2024, 6, 12, 23, 30, 0, 0, time.UTC)
	}
	result := c.Analyze("are you still open?", nil)
	assert.True(t, result.Analysis.HasFlag(core.FlagOutsideHours))

	c.now = func() time.Time {
		return time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	}
	result = c.Analyze("are you still open?", nil)
	assert.False(t, result.Analysis.HasFlag(core.FlagOutsideHours))
}

func TestReplaceLexiconIsAtomic(t *testing.T) {
	c := newTestClassifier(t)

	before := c.Analyze("the fleeble is broken", nil)
	assert.Equal(t, core.CategorySupport, before.Analysis.Category) // "broken"

	extended := DefaultLexicon().WithCategoryKeywords(map[string][]string{
		"business": {"fleeble", "fleeble review", "fleeble contract"},
	})
	c.ReplaceLexicon(extended)

	after := c.Analyze("schedule the fleeble review for the fleeble contract", nil)
	assert.Equal(t, core.CategoryBusiness, after.Analysis.Category)
}

func TestWordCount(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Analyze("one two three four five", nil)
	assert.Equal(t, 5, result.Analysis.WordCount)
}
