package core

import (
	"context"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

// MessageClassifier produces an analysis for an inbound message. It never
// fails; degraded results are reported through the AnalysisResult itself.
type MessageClassifier interface {
	Analyze(text string, mctx *MessageContext) AnalysisResult
}

// ReplyGenerator defines the interface for the text-generation collaborator
// that drafts assistant replies.
type ReplyGenerator interface {
	// GenerateReply drafts a reply to msg, given its analysis and recent
	// conversation history.
	GenerateReply(ctx context.Context, msg *Message, analysis *MessageAnalysis, history []StoredMessage) (string, error)
}

// MessageStore defines the interface for persisting and querying message
// history.
type MessageStore interface {
	// Save persists a message with its analysis summary.
	Save(ctx context.Context, msg *StoredMessage) error

	// Search returns messages matching a normalized query descriptor,
	// newest first.
	Search(ctx context.Context, q *search.Query) ([]StoredMessage, error)

	// Recent returns the last n messages of a chat, oldest first.
	Recent(ctx context.Context, chatID string, n int) ([]StoredMessage, error)

	// Cleanup removes messages past the retention window.
	Cleanup(ctx context.Context) error
}

// MessageGateway defines the interface for the outbound WhatsApp gateway.
type MessageGateway interface {
	// SendText delivers a plain text message to a chat.
	SendText(ctx context.Context, chatID string, text string) error
}
