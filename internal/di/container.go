package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/adapters/whatsapp"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/classifier"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/config"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/factory"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/httpapi"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/logging"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGeneratorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) *classifier.Classifier {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *classifier.Classifier) core.MessageClassifier {
		return c
	}); err != nil {
		return nil, err
	}

	// Register normalizer
	if err := container.Provide(search.NewNormalizer); err != nil {
		return nil, err
	}

	// Register reply generator
	if err := container.Provide(func(f *factory.GeneratorFactory) (core.ReplyGenerator, error) {
		return f.CreateReplyGenerator()
	}); err != nil {
		return nil, err
	}

	// Register message store
	if err := container.Provide(func(f *factory.StoreFactory) (core.MessageStore, error) {
		return f.CreateMessageStore()
	}); err != nil {
		return nil, err
	}

	// Register gateway client
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.MessageGateway, error) {
		gatewayCfg := cfg.GetGateway()
		timeout, err := time.ParseDuration(gatewayCfg.Timeout)
		if err != nil {
			return nil, err
		}
		return whatsapp.NewClient(gatewayCfg.BaseURL, gatewayCfg.APIKey, gatewayCfg.Session, timeout, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register assistant service
	if err := container.Provide(func(
		cfg *config.Config,
		classifier core.MessageClassifier,
		normalizer *search.Normalizer,
		generator core.ReplyGenerator,
		store core.MessageStore,
		gateway core.MessageGateway,
		logger *zap.Logger,
	) *core.AssistantService {
		assistantCfg := cfg.GetAssistant()
		return core.NewAssistantService(
			classifier, normalizer, generator, store, gateway, logger,
			assistantCfg.ReplyEnabled, assistantCfg.HistoryWindow,
		)
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(service *core.AssistantService, cfg *config.Config, logger *zap.Logger) *httpapi.Server {
		serverCfg := cfg.GetServer()
		return httpapi.NewServer(service, logger, serverCfg.ListenAddress, serverCfg.CORSOrigins)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
