package core

import (
	"time"
)

// Category is the coarse topical bucket assigned to a message.
type Category string

const (
	CategoryBusiness Category = "business"
	CategoryPersonal Category = "personal"
	CategorySupport  Category = "support"
	CategorySales    Category = "sales"
	CategorySpam     Category = "spam"
	CategoryUrgent   Category = "urgent"
	CategoryOther    Category = "other"
)

// Priority is the urgency ranking of a message, independent of its category.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// MessageType describes the conversational role of a message.
type MessageType string

const (
	TypeQuestion     MessageType = "question"
	TypeGreeting     MessageType = "greeting"
	TypeGratitude    MessageType = "gratitude"
	TypeConfirmation MessageType = "confirmation"
	TypeRequest      MessageType = "request"
	TypeStatement    MessageType = "statement"
)

// Language is the detected language of a message.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageSpanish Language = "spanish"
	LanguageUnknown Language = "unknown"
)

// Sentiment is the overall tone of a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Contextual flags appended during analysis enrichment.
const (
	FlagContainsLinks  = "contains_links"
	FlagContainsPhone  = "contains_phone"
	FlagOutsideHours   = "sent_outside_hours"
	FlagFirstContact   = "first_contact"
	FlagPotentialBot   = "potential_bot"
	FlagVeryShort      = "very_short"
	FlagVeryLong       = "very_long"
	FlagAnalysisFailed = "analysis_failed"
)

// ExtractedInfo holds the structured entities pulled out of a message body.
// Each list preserves first-occurrence order and is not deduplicated.
type ExtractedInfo struct {
	PhoneNumbers []string `json:"phone_numbers"`
	Emails       []string `json:"emails"`
	URLs         []string `json:"urls"`
	Dates        []string `json:"dates"`
	Times        []string `json:"times"`
	Prices       []string `json:"prices"`
}

// MessageAnalysis is the structured result of classifying a single message.
// It is a value object: built once per message and only appended to by the
// contextual enrichment step.
type MessageAnalysis struct {
	Category               Category      `json:"category"`
	Priority               Priority      `json:"priority"`
	MessageType            MessageType   `json:"message_type"`
	Language               Language      `json:"language"`
	Sentiment              Sentiment     `json:"sentiment"`
	IsSpam                 bool          `json:"is_spam"`
	ContainsUrgentKeywords bool          `json:"contains_urgent_keywords"`
	WordCount              int           `json:"word_count"`
	Confidence             float64       `json:"confidence"`
	ExtractedInfo          ExtractedInfo `json:"extracted_info"`
	Flags                  []string      `json:"flags"`
}

// HasFlag reports whether the analysis carries the given contextual flag.
func (a *MessageAnalysis) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag appends a contextual flag if it is not already present.
func (a *MessageAnalysis) AddFlag(flag string) {
	if !a.HasFlag(flag) {
		a.Flags = append(a.Flags, flag)
	}
}

// MessageContext carries the light per-message context available at
// classification time.
type MessageContext struct {
	SenderName     string
	IsFirstMessage bool
}

// Message represents an inbound WhatsApp message as delivered by the gateway.
type Message struct {
	ID         string
	ChatID     string
	Sender     string
	PushName   string
	Body       string
	FromMe     bool
	ReceivedAt time.Time
}

// StoredMessage is a message together with its analysis summary, as persisted
// by the message store.
type StoredMessage struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	Category   Category  `json:"category"`
	Priority   Priority  `json:"priority"`
	IsSpam     bool      `json:"is_spam"`
	ReceivedAt time.Time `json:"received_at"`
}
