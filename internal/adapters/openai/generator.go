package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/textutil"
)

// ReplyGenerator is an implementation of the ReplyGenerator port using the
// OpenAI chat completion API.
type ReplyGenerator struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	maxBodySize int
	persona     string
	logger      *zap.Logger
}

// NewReplyGenerator creates a new OpenAI reply generator.
func NewReplyGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	persona string,
	logger *zap.Logger,
) *ReplyGenerator {
	return &ReplyGenerator{
		client:      openai.NewClient(apiKey),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		persona:     persona,
		logger:      logger,
	}
}

// GenerateReply drafts a reply to the message, steering tone by the
// classifier's analysis and including recent conversation history.
func (g *ReplyGenerator) GenerateReply(ctx context.Context, msg *core.Message, analysis *core.MessageAnalysis, history []core.StoredMessage) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: g.persona + "\n" + toneHint(analysis),
		},
	}

	for _, past := range history {
		role := openai.ChatMessageRoleUser
		if past.Sender == "" || past.ID == msg.ID {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: textutil.Truncate(past.Body, g.maxBodySize),
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: textutil.Truncate(msg.Body, g.maxBodySize),
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.modelName,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.logger.Debug("Generated reply",
		zap.String("model", g.modelName),
		zap.Int("reply_length", len(reply)))

	return reply, nil
}

// toneHint turns the analysis into steering instructions for the model.
func toneHint(analysis *core.MessageAnalysis) string {
	var hints []string
	if analysis.Language == core.LanguageSpanish {
		hints = append(hints, "Reply in Spanish.")
	}
	if analysis.Priority == core.PriorityUrgent || analysis.Priority == core.PriorityHigh {
		hints = append(hints, "The message is urgent; be brief and direct.")
	}
	if analysis.Sentiment == core.SentimentNegative {
		hints = append(hints, "The sender sounds upset; acknowledge that first.")
	}
	if analysis.MessageType == core.TypeGreeting {
		hints = append(hints, "This is a greeting; a short friendly reply is enough.")
	}
	if len(hints) == 0 {
		return "Keep the reply short and conversational."
	}
	return strings.Join(hints, " ")
}
