package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

// MySQLStore is a MySQL implementation of the MessageStore interface.
type MySQLStore struct {
	db          *sql.DB
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLStore connects to MySQL and initializes the message store schema.
func NewMySQLStore(dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id VARCHAR(64) PRIMARY KEY,
			chat_id VARCHAR(128) NOT NULL,
			sender VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			category VARCHAR(32) NOT NULL,
			priority VARCHAR(32) NOT NULL,
			is_spam BOOLEAN NOT NULL,
			received_at VARCHAR(32) NOT NULL,
			INDEX idx_messages_chat_received (chat_id, received_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	s := &MySQLStore{
		db:          db,
		logger:      logger,
		retention:   retention,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go s.startCleanupTask()
	}

	return s, nil
}

// Save persists a message with its analysis summary.
func (s *MySQLStore) Save(ctx context.Context, msg *core.StoredMessage) error {
	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO messages (id, chat_id, sender, body, category, priority, is_spam, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ChatID, msg.Sender, msg.Body, string(msg.Category), string(msg.Priority), msg.IsSpam,
		msg.ReceivedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Search returns messages matching a normalized query descriptor, newest
// first.
func (s *MySQLStore) Search(ctx context.Context, q *search.Query) ([]core.StoredMessage, error) {
	query, args := buildSearchSQL(q, "?")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows, s.logger)
}

// Recent returns the last n messages of a chat, oldest first.
func (s *MySQLStore) Recent(ctx context.Context, chatID string, n int) ([]core.StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, sender, body, category, priority, is_spam, received_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY received_at DESC
		LIMIT ?
	`, chatID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent messages: %w", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows, s.logger)
	if err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}

// Cleanup removes messages past the retention window.
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-s.retention).UTC().Format(time.RFC3339)

	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE received_at <= ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up expired messages: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else if rowsAffected > 0 {
		s.logger.Debug("Removed expired messages", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

func (s *MySQLStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up message store", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the connection pool.
func (s *MySQLStore) Stop() {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL connection", zap.Error(err))
	}
}
