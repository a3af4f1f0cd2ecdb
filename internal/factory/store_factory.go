package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/adapters/store"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/config"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
)

// StoreFactory creates message stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMessageStore creates a message store based on the configuration
func (f *StoreFactory) CreateMessageStore() (core.MessageStore, error) {
	storageCfg := f.cfg.GetStorage()

	retention, err := time.ParseDuration(storageCfg.Retention)
	if err != nil {
		return nil, fmt.Errorf("invalid storage retention: %w", err)
	}
	cleanupFreq, err := time.ParseDuration(storageCfg.CleanupFrequency)
	if err != nil {
		return nil, fmt.Errorf("invalid storage cleanup frequency: %w", err)
	}

	switch storageCfg.Type {
	case "memory":
		return store.NewMemoryStore(f.logger, retention, cleanupFreq), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storageCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storageCfg.SQLitePath, f.logger, retention, cleanupFreq)
	case "mysql":
		return store.NewMySQLStore(storageCfg.MySQLDSN, f.logger, retention, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageCfg.Type)
	}
}
