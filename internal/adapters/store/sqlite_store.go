package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

// SQLiteStore is a SQLite implementation of the MessageStore interface.
type SQLiteStore struct {
	db          *sql.DB
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteStore opens (and if needed initializes) a SQLite message store.
func NewSQLiteStore(dbPath string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			body TEXT NOT NULL,
			category TEXT NOT NULL,
			priority TEXT NOT NULL,
			is_spam BOOLEAN NOT NULL,
			received_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_messages_chat_received ON messages(chat_id, received_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	s := &SQLiteStore{
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
func (s *SQLiteStore) Save(ctx context.Context, msg *core.StoredMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO messages (id, chat_id, sender, body, category, priority, is_spam, received_at)
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
func (s *SQLiteStore) Search(ctx context.Context, q *search.Query) ([]core.StoredMessage, error) {
	query, args := buildSearchSQL(q, "?")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows, s.logger)
}

// Recent returns the last n messages of a chat, oldest first.
func (s *SQLiteStore) Recent(ctx context.Context, chatID string, n int) ([]core.StoredMessage, error) {
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
func (s *SQLiteStore) Cleanup(ctx context.Context) error {
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

func (s *SQLiteStore) startCleanupTask() {
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

// Stop stops the background cleanup task and closes the database.
func (s *SQLiteStore) Stop() {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}

// buildSearchSQL turns a query descriptor into SQL shared by the SQL-backed
// stores. placeholder is the driver's parameter marker.
func buildSearchSQL(q *search.Query, placeholder string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, chat_id, sender, body, category, priority, is_spam, received_at
		FROM messages
		WHERE received_at >= ` + placeholder + ` AND received_at <= ` + placeholder)
	args := []interface{}{
		q.StartsAt.UTC().Format(time.RFC3339),
		q.EndsAt.UTC().Format(time.RFC3339),
	}

	if q.Sender != search.SenderAll {
		sb.WriteString(` AND LOWER(sender) LIKE ` + placeholder)
		args = append(args, "%"+strings.ToLower(q.Sender)+"%")
	}

	if len(q.Keywords) > 0 {
		clauses := make([]string, 0, len(q.Keywords))
		for _, kw := range q.Keywords {
			clauses = append(clauses, `LOWER(body) LIKE `+placeholder)
			args = append(args, "%"+strings.ToLower(kw)+"%")
		}
		sb.WriteString(` AND (` + strings.Join(clauses, " OR ") + `)`)
	}

	sb.WriteString(` ORDER BY received_at DESC LIMIT ` + placeholder)
	args = append(args, q.Limit)

	return sb.String(), args
}

// scanMessages reads rows produced by the shared column list.
func scanMessages(rows *sql.Rows, logger *zap.Logger) ([]core.StoredMessage, error) {
	var messages []core.StoredMessage
	for rows.Next() {
		var msg core.StoredMessage
		var category, priority, receivedAt string
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Sender, &msg.Body, &category, &priority, &msg.IsSpam, &receivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg.Category = core.Category(category)
		msg.Priority = core.Priority(priority)
		ts, err := time.Parse(time.RFC3339, receivedAt)
		if err != nil {
			logger.Warn("Failed to parse received_at timestamp", zap.Error(err), zap.String("message_id", msg.ID))
		} else {
			msg.ReceivedAt = ts
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}
	return messages, nil
}

func reverse(messages []core.StoredMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
