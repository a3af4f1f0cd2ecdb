package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/textutil"
)

// ReplyGenerator is an implementation of the ReplyGenerator port using
// Google Gemini.
type ReplyGenerator struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	modelName   string
	maxBodySize int
	persona     string
	logger      *zap.Logger
}

// NewReplyGenerator creates a new Gemini reply generator.
func NewReplyGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	persona string,
	logger *zap.Logger,
) (*ReplyGenerator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &ReplyGenerator{
		client:      client,
		model:       model,
		modelName:   modelName,
		maxBodySize: maxBodySize,
		persona:     persona,
		logger:      logger,
	}, nil
}

// Close closes the underlying Gemini client.
func (g *ReplyGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// GenerateReply drafts a reply to the message, steering tone by the
// classifier's analysis and including recent conversation history.
func (g *ReplyGenerator) GenerateReply(ctx context.Context, msg *core.Message, analysis *core.MessageAnalysis, history []core.StoredMessage) (string, error) {
	var sb strings.Builder
	sb.WriteString(g.persona)
	sb.WriteString("\n")
	sb.WriteString(toneHint(analysis))
	sb.WriteString("\n\nRecent conversation:\n")
	for _, past := range history {
		if past.ID == msg.ID {
			continue
		}
		sb.WriteString(past.Sender)
		sb.WriteString(": ")
		sb.WriteString(textutil.Truncate(past.Body, g.maxBodySize))
		sb.WriteString("\n")
	}
	sb.WriteString("\nNew message:\n")
	sb.WriteString(textutil.Truncate(msg.Body, g.maxBodySize))
	sb.WriteString("\n\nWrite only the reply text.")

	resp, err := g.model.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	reply := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
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
	if len(hints) == 0 {
		return "Keep the reply short and conversational."
	}
	return strings.Join(hints, " ")
}
