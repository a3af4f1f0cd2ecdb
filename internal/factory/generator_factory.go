package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/adapters/gemini"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/adapters/openai"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/config"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
)

// GeneratorFactory creates reply generators
type GeneratorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory(cfg *config.Config, logger *zap.Logger) *GeneratorFactory {
	return &GeneratorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateReplyGenerator creates a reply generator based on the configuration.
// The "none" provider disables reply generation entirely.
func (f *GeneratorFactory) CreateReplyGenerator() (core.ReplyGenerator, error) {
	persona := f.cfg.GetAssistant().Persona

	switch provider := f.cfg.GetGenerator().Provider; provider {
	case "openai":
		c := f.cfg.GetOpenAI()
		return openai.NewReplyGenerator(
			c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP,
			c.MaxBodySize, persona, f.logger,
		), nil
	case "gemini":
		c := f.cfg.GetGemini()
		gen, err := gemini.NewReplyGenerator(
			c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP,
			c.MaxBodySize, persona, f.logger,
		)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", provider)
	}
}
