package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

// AssistantService is the core service tying the classifier, the normalizer
// and the external collaborators together.
type AssistantService struct {
	classifier    MessageClassifier
	normalizer    *search.Normalizer
	generator     ReplyGenerator
	store         MessageStore
	gateway       MessageGateway
	logger        *zap.Logger
	replyEnabled  bool
	historyWindow int
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	classifier MessageClassifier,
	normalizer *search.Normalizer,
	generator ReplyGenerator,
	store MessageStore,
	gateway MessageGateway,
	logger *zap.Logger,
	replyEnabled bool,
	historyWindow int,
) *AssistantService {
	return &AssistantService{
		classifier:    classifier,
		normalizer:    normalizer,
		generator:     generator,
		store:         store,
		gateway:       gateway,
		logger:        logger,
		replyEnabled:  replyEnabled,
		historyWindow: historyWindow,
	}
}

// HandleInbound runs an inbound message through the pipeline: classify,
// persist, decide whether to reply, generate and send. Classification never
// fails; storage and delivery failures are logged and absorbed so inbound
// handling is never blocked.
func (s *AssistantService) HandleInbound(ctx context.Context, msg *Message) AnalysisResult {
	result := s.classifier.Analyze(msg.Body, &MessageContext{
		SenderName:     msg.PushName,
		IsFirstMessage: s.isFirstMessage(ctx, msg.ChatID),
	})
	analysis := result.Analysis

	if result.Degraded {
		s.logger.Warn("Message analysis degraded",
			zap.String("message_id", msg.ID),
			zap.String("reason", result.Reason))
	} else {
		s.logger.Debug("Message analyzed",
			zap.String("message_id", msg.ID),
			zap.String("category", string(analysis.Category)),
			zap.String("priority", string(analysis.Priority)),
			zap.Bool("is_spam", analysis.IsSpam))
	}

	if err := s.store.Save(ctx, &StoredMessage{
		ID:         msg.ID,
		ChatID:     msg.ChatID,
		Sender:     msg.Sender,
		Body:       msg.Body,
		Category:   analysis.Category,
		Priority:   analysis.Priority,
		IsSpam:     analysis.IsSpam,
		ReceivedAt: msg.ReceivedAt,
	}); err != nil {
		s.logger.Error("Failed to store message", zap.Error(err), zap.String("message_id", msg.ID))
	}

	if !s.shouldReply(msg, result) {
		return result
	}

	history, err := s.store.Recent(ctx, msg.ChatID, s.historyWindow)
	if err != nil {
		s.logger.Error("Failed to load conversation history", zap.Error(err))
		history = nil
	}

	reply, err := s.generator.GenerateReply(ctx, msg, &analysis, history)
	if err != nil {
		s.logger.Error("Failed to generate reply", zap.Error(err), zap.String("message_id", msg.ID))
		return result
	}
	if reply == "" {
		return result
	}

	if err := s.gateway.SendText(ctx, msg.ChatID, reply); err != nil {
		s.logger.Error("Failed to send reply", zap.Error(err), zap.String("chat_id", msg.ChatID))
	}

	return result
}

// shouldReply applies the response gate: the assistant stays silent on its
// own messages, spam, suspected bots and degraded analyses.
func (s *AssistantService) shouldReply(msg *Message, result AnalysisResult) bool {
	if !s.replyEnabled || s.generator == nil {
		return false
	}
	if msg.FromMe {
		return false
	}
	if result.Degraded {
		return false
	}
	if result.Analysis.IsSpam || result.Analysis.HasFlag(FlagPotentialBot) {
		return false
	}
	return true
}

// SearchHistory normalizes an owner's loosely-typed history query and, when
// valid, runs it against the message store. Validation failures come back in
// the search result; only storage failures surface as errors.
func (s *AssistantService) SearchHistory(ctx context.Context, params search.Params) (search.Result, []StoredMessage, error) {
	result := s.normalizer.ValidateAndNormalize(params)
	if !result.Valid {
		s.logger.Info("Rejected history query", zap.Strings("errors", result.Errors))
		return result, nil, nil
	}
	for _, w := range result.Warnings {
		s.logger.Debug("History query warning", zap.String("warning", w))
	}

	messages, err := s.store.Search(ctx, result.Query)
	if err != nil {
		return result, nil, err
	}
	return result, messages, nil
}

// isFirstMessage reports whether the chat has no stored history yet.
func (s *AssistantService) isFirstMessage(ctx context.Context, chatID string) bool {
	history, err := s.store.Recent(ctx, chatID, 1)
	if err != nil {
		return false
	}
	return len(history) == 0
}
