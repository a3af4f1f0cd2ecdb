package factory

import (
	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/classifier"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/config"
)

// ClassifierFactory builds the classifier from configuration
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier builds a classifier with configured thresholds and the
// built-in lexicon extended by any configured category keywords.
func (f *ClassifierFactory) CreateClassifier() *classifier.Classifier {
	c := f.cfg.GetClassifier()

	thresholds := classifier.Thresholds{
		LongMessageWords:        c.LongMessageWords,
		VeryShortWords:          c.VeryShortWords,
		VeryLongWords:           c.VeryLongWords,
		SpamURLCount:            c.SpamURLCount,
		SpamUppercaseRatio:      c.SpamUppercaseRatio,
		SpamUppercaseMinLetters: c.SpamUppercaseMinLetters,
		ShoutUppercaseRatio:     c.ShoutUppercaseRatio,
		ShoutMinLetters:         c.ShoutMinLetters,
		BusinessHoursStart:      c.BusinessHoursStart,
		BusinessHoursEnd:        c.BusinessHoursEnd,
	}

	lexicon := classifier.DefaultLexicon().WithCategoryKeywords(c.ExtraKeywords)
	if len(c.ExtraKeywords) > 0 {
		f.logger.Info("Extended classifier lexicon",
			zap.Int("extended_categories", len(c.ExtraKeywords)))
	}

	return classifier.New(lexicon, thresholds, f.logger)
}
