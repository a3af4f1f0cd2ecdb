package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

// MemoryStore is an in-memory implementation of the MessageStore interface,
// intended for tests and single-node setups without durability needs.
type MemoryStore struct {
	messages    []core.StoredMessage
	mu          sync.RWMutex
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryStore creates a new in-memory message store.
func NewMemoryStore(logger *zap.Logger, retention, cleanupFreq time.Duration) *MemoryStore {
	s := &MemoryStore{
		logger:      logger,
		retention:   retention,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}
	if cleanupFreq > 0 {
		go s.startCleanupTask()
	}
	return s
}

// Save persists a message with its analysis summary.
func (s *MemoryStore) Save(ctx context.Context, msg *core.StoredMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *msg)
	return nil
}

// Search returns messages matching a normalized query descriptor, newest
// first, capped at the descriptor's limit.
func (s *MemoryStore) Search(ctx context.Context, q *search.Query) ([]core.StoredMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]core.StoredMessage, 0, q.Limit)
	for _, msg := range s.messages {
		if matchesQuery(&msg, q) {
			matched = append(matched, msg)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReceivedAt.After(matched[j].ReceivedAt)
	})
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Recent returns the last n messages of a chat, oldest first.
func (s *MemoryStore) Recent(ctx context.Context, chatID string, n int) ([]core.StoredMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chat []core.StoredMessage
	for _, msg := range s.messages {
		if msg.ChatID == chatID {
			chat = append(chat, msg)
		}
	}
	sort.Slice(chat, func(i, j int) bool {
		return chat[i].ReceivedAt.Before(chat[j].ReceivedAt)
	})
	if n > 0 && len(chat) > n {
		chat = chat[len(chat)-n:]
	}
	return chat, nil
}

// Cleanup removes messages past the retention window.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.messages[:0]
	removed := 0
	for _, msg := range s.messages {
		if msg.ReceivedAt.After(cutoff) {
			kept = append(kept, msg)
		} else {
			removed++
		}
	}
	s.messages = kept
	if removed > 0 {
		s.logger.Debug("Removed expired messages", zap.Int("expired_count", removed))
	}
	return nil
}

func (s *MemoryStore) startCleanupTask() {
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

// Stop stops the background cleanup task.
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// matchesQuery applies the descriptor's window, sender and keyword filters.
func matchesQuery(msg *core.StoredMessage, q *search.Query) bool {
	if msg.ReceivedAt.Before(q.StartsAt) || msg.ReceivedAt.After(q.EndsAt) {
		return false
	}
	if q.Sender != search.SenderAll && !strings.Contains(strings.ToLower(msg.Sender), strings.ToLower(q.Sender)) {
		return false
	}
	if len(q.Keywords) == 0 {
		return true
	}
	body := strings.ToLower(msg.Body)
	for _, kw := range q.Keywords {
		if strings.Contains(body, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
