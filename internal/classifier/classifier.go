// Package classifier implements the rule-based message intelligence pipeline:
// category, priority, type, language, sentiment and spam scoring over raw
// WhatsApp message text, plus entity extraction and contextual flagging.
package classifier

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/textutil"
)

// Thresholds are the empirical tuning constants of the pipeline. They carry
// no principled derivation; treat them as configuration.
type Thresholds struct {
	LongMessageWords        int
	VeryShortWords          int
	VeryLongWords           int
	SpamURLCount            int
	SpamUppercaseRatio      float64
	SpamUppercaseMinLetters int
	ShoutUppercaseRatio     float64
	ShoutMinLetters         int
	BusinessHoursStart      int
	BusinessHoursEnd        int
}

// DefaultThresholds returns the stock tuning constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LongMessageWords:        50,
		VeryShortWords:          3,
		VeryLongWords:           100,
		SpamURLCount:            3,
		SpamUppercaseRatio:      0.6,
		SpamUppercaseMinLetters: 15,
		ShoutUppercaseRatio:     0.5,
		ShoutMinLetters:         10,
		BusinessHoursStart:      9,
		BusinessHoursEnd:        18,
	}
}

var punctRunRe = regexp.MustCompile(`[!?]{3,}`)

// Classifier analyzes inbound messages. It is safe for concurrent use: the
// lexicon is read through an atomic pointer and everything else is immutable
// after construction.
type Classifier struct {
	lexicon    atomic.Pointer[Lexicon]
	thresholds Thresholds
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a classifier with the given lexicon and thresholds.
func New(lex *Lexicon, th Thresholds, logger *zap.Logger) *Classifier {
	c := &Classifier{
		thresholds: th,
		logger:     logger,
		now:        time.Now,
	}
	c.lexicon.Store(lex)
	return c
}

// ReplaceLexicon swaps in a new keyword table. In-flight calls keep the table
// they loaded; there is no partially-updated state.
func (c *Classifier) ReplaceLexicon(lex *Lexicon) {
	c.lexicon.Store(lex)
	c.logger.Info("Classifier lexicon replaced")
}

// Analyze classifies a message. It never fails: empty or malformed input, and
// any internal panic, produce a conservative degraded analysis instead of an
// error so that misclassification can never block message delivery.
func (c *Classifier) Analyze(text string, mctx *core.MessageContext) (result core.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Message analysis panicked", zap.Any("panic", r))
			result = c.degraded(fmt.Sprintf("analysis panic: %v", r))
		}
	}()

	text = textutil.SanitizeUTF8(text)
	if strings.TrimSpace(text) == "" {
		return c.degraded("empty message body")
	}

	lex := c.lexicon.Load()
	folded := textutil.FoldDiacritics(strings.ToLower(text))
	tokens := tokenSet(text)
	wordCount := textutil.WordCount(text)

	entities := ExtractEntities(text)
	isSpam := c.detectSpam(lex, text, folded, tokens, &entities)

	category, categoryScore := classifyCategory(lex, folded, tokens)
	if isSpam {
		// Spam is a safety signal: it wins the category even when another
		// bucket scored higher, but does not touch priority.
		category = core.CategorySpam
	}

	msgType := classifyType(lex, text, folded, tokens)
	priority, urgentHit := c.determinePriority(lex, text, tokens, folded, msgType, wordCount)
	language := detectLanguage(lex, folded, tokens)
	sentiment := classifySentiment(lex, folded, tokens)

	analysis := core.MessageAnalysis{
		Category:               category,
		Priority:               priority,
		MessageType:            msgType,
		Language:               language,
		Sentiment:              sentiment,
		IsSpam:                 isSpam,
		ContainsUrgentKeywords: urgentHit,
		WordCount:              wordCount,
		ExtractedInfo:          entities,
		Flags:                  []string{},
	}

	c.enrich(&analysis, mctx, lex, folded, wordCount)
	analysis.Confidence = confidence(&analysis, categoryScore)

	return core.Ok(analysis)
}

// degraded builds the conservative fallback analysis.
func (c *Classifier) degraded(reason string) core.AnalysisResult {
	return core.DegradedAnalysis(core.MessageAnalysis{
		Category:    core.CategoryOther,
		Priority:    core.PriorityMedium,
		MessageType: core.TypeStatement,
		Language:    core.LanguageUnknown,
		Sentiment:   core.SentimentNeutral,
		Confidence:  0.1,
		Flags:       []string{core.FlagAnalysisFailed},
	}, reason)
}

// classifyCategory scores every category by keyword hits and picks the
// strict winner, falling back to the fixed tie-break order.
func classifyCategory(lex *Lexicon, folded string, tokens map[string]bool) (core.Category, int) {
	best := core.CategoryOther
	bestScore := 0
	for _, cat := range CategoryOrder {
		score := matchCount(lex.Categories[cat], folded, tokens)
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best, bestScore
}

// determinePriority ranks urgency independently of category.
func (c *Classifier) determinePriority(lex *Lexicon, text string, tokens map[string]bool, folded string, msgType core.MessageType, wordCount int) (core.Priority, bool) {
	urgentHit := matchCount(lex.UrgentSignals, folded, tokens) > 0
	if urgentHit {
		return core.PriorityUrgent, true
	}
	if matchCount(lex.ImportanceSignals, folded, tokens) > 0 {
		return core.PriorityHigh, false
	}
	if ratio, letters := textutil.UppercaseRatio(text); ratio > c.thresholds.ShoutUppercaseRatio && letters >= c.thresholds.ShoutMinLetters {
		return core.PriorityHigh, false
	}
	if strings.Count(text, "!") >= 3 {
		return core.PriorityHigh, false
	}
	if wordCount > c.thresholds.LongMessageWords {
		return core.PriorityMedium, false
	}
	if msgType == core.TypeGreeting || msgType == core.TypeGratitude {
		return core.PriorityLow, false
	}
	return core.PriorityMedium, false
}

// classifyType applies the fixed precedence: question, greeting, gratitude,
// confirmation, request, statement.
func classifyType(lex *Lexicon, text, folded string, tokens map[string]bool) core.MessageType {
	if strings.Contains(text, "?") {
		return core.TypeQuestion
	}
	words := strings.Fields(folded)
	if len(words) > 0 {
		lead := strings.Trim(words[0], ".,;:!")
		for _, q := range lex.Interrogatives {
			if lead == q {
				return core.TypeQuestion
			}
		}
	}
	if matchCount(lex.Greetings, folded, tokens) > 0 {
		return core.TypeGreeting
	}
	if matchCount(lex.Gratitude, folded, tokens) > 0 {
		return core.TypeGratitude
	}
	if matchCount(lex.Confirmations, folded, tokens) > 0 {
		return core.TypeConfirmation
	}
	if matchCount(lex.Requests, folded, tokens) > 0 {
		return core.TypeRequest
	}
	return core.TypeStatement
}

// detectLanguage counts language marker hits; the nonzero higher count wins.
func detectLanguage(lex *Lexicon, folded string, tokens map[string]bool) core.Language {
	spanish := matchCount(lex.SpanishMarkers, folded, tokens)
	english := matchCount(lex.EnglishMarkers, folded, tokens)
	switch {
	case spanish > english:
		return core.LanguageSpanish
	case english > spanish:
		return core.LanguageEnglish
	case english > 0:
		return core.LanguageEnglish
	default:
		return core.LanguageUnknown
	}
}

// classifySentiment compares positive and negative lexicon hits; ties,
// including zero hits on both sides, are neutral.
func classifySentiment(lex *Lexicon, folded string, tokens map[string]bool) core.Sentiment {
	positive := matchCount(lex.Positive, folded, tokens)
	negative := matchCount(lex.Negative, folded, tokens)
	switch {
	case positive > negative:
		return core.SentimentPositive
	case negative > positive:
		return core.SentimentNegative
	default:
		return core.SentimentNeutral
	}
}

// detectSpam combines the independent spam signals: scam phrasing, link
// flooding, shouting and punctuation runs.
func (c *Classifier) detectSpam(lex *Lexicon, text, folded string, tokens map[string]bool, entities *core.ExtractedInfo) bool {
	if matchCount(lex.SpamPhrases, folded, tokens) > 0 {
		return true
	}
	if len(entities.URLs) >= c.thresholds.SpamURLCount {
		return true
	}
	if ratio, letters := textutil.UppercaseRatio(text); ratio > c.thresholds.SpamUppercaseRatio && letters >= c.thresholds.SpamUppercaseMinLetters {
		return true
	}
	return punctRunRe.MatchString(text)
}

// enrich appends contextual flags. This is the only step allowed to mutate a
// constructed analysis, and the bot check is the only one allowed to flip
// IsSpam after the fact.
func (c *Classifier) enrich(a *core.MessageAnalysis, mctx *core.MessageContext, lex *Lexicon, folded string, wordCount int) {
	hour := c.now().Hour()
	if hour < c.thresholds.BusinessHoursStart || hour >= c.thresholds.BusinessHoursEnd {
		a.AddFlag(core.FlagOutsideHours)
	}
	if mctx != nil {
		if mctx.IsFirstMessage {
			a.AddFlag(core.FlagFirstContact)
		}
		sender := strings.ToLower(mctx.SenderName)
		for _, name := range lex.BotNames {
			if sender != "" && strings.Contains(sender, name) {
				a.AddFlag(core.FlagPotentialBot)
				a.IsSpam = true
				break
			}
		}
	}
	if wordCount < c.thresholds.VeryShortWords {
		a.AddFlag(core.FlagVeryShort)
	}
	if wordCount > c.thresholds.VeryLongWords {
		a.AddFlag(core.FlagVeryLong)
	}
	if len(a.ExtractedInfo.URLs) > 0 || matchCount(lex.LinkBait, folded, nil) > 0 {
		a.AddFlag(core.FlagContainsLinks)
	}
	if len(a.ExtractedInfo.PhoneNumbers) > 0 {
		a.AddFlag(core.FlagContainsPhone)
	}
}

// confidence reflects how many independent signals agreed. Well-matched
// analyses land well above zero; the ceiling leaves room for doubt.
func confidence(a *core.MessageAnalysis, categoryScore int) float64 {
	conf := 0.3
	if categoryScore > 0 {
		bonus := categoryScore
		if bonus > 3 {
			bonus = 3
		}
		conf += 0.15 + 0.05*float64(bonus)
	}
	if a.Language != core.LanguageUnknown {
		conf += 0.1
	}
	if a.Sentiment != core.SentimentNeutral {
		conf += 0.05
	}
	if a.MessageType != core.TypeStatement {
		conf += 0.1
	}
	if a.ContainsUrgentKeywords || a.IsSpam {
		conf += 0.1
	}
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

// matchCount counts how many keywords occur in the message. Single words are
// matched against the folded token set; phrases are matched as substrings of
// the folded text. Each keyword counts at most once.
func matchCount(keywords []string, folded string, tokens map[string]bool) int {
	n := 0
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(folded, kw) {
				n++
			}
		} else if tokens != nil && tokens[kw] {
			n++
		} else if tokens == nil && strings.Contains(folded, kw) {
			n++
		}
	}
	return n
}

func tokenSet(text string) map[string]bool {
	tokens := textutil.Tokenize(text)
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}
