package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

const (
	historyTTL = 24 * time.Hour
	maxHistory = 40
)

var historyTracer = otel.Tracer("fisio.internal.conversation.history")

// HistoryStore keeps per-patient chat transcripts in redis with a
// rolling TTL. Conversations expire a day after the last message.
type HistoryStore struct {
	redis *redis.Client
}

// NewHistoryStore creates a redis-backed history store.
func NewHistoryStore(client *redis.Client) *HistoryStore {
	if client == nil {
		panic("conversation: redis client required")
	}
	return &HistoryStore{redis: client}
}

// Load returns the transcript for a patient. An unknown patient is an
// empty history, not an error.
func (s *HistoryStore) Load(ctx context.Context, patientID string) ([]ChatMessage, error) {
	ctx, span := historyTracer.Start(ctx, "conversation.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(patientID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: load history: %w", err)
	}

	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: decode history: %w", err)
	}
	return history, nil
}

// Save writes the transcript back, trimmed to the most recent turns.
func (s *HistoryStore) Save(ctx context.Context, patientID string, history []ChatMessage) error {
	ctx, span := historyTracer.Start(ctx, "conversation.save_history")
	defer span.End()

	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(patientID), data, historyTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: persist history: %w", err)
	}
	return nil
}

// AppendSystemMessage pushes a system line into a patient's transcript
// so the assistant can refer to it in later turns. Used by the
// reminder scanner.
func (s *HistoryStore) AppendSystemMessage(ctx context.Context, patientID, text string) error {
	history, err := s.Load(ctx, patientID)
	if err != nil {
		return err
	}
	history = append(history, ChatMessage{Role: ChatRoleSystem, Content: text})
	return s.Save(ctx, patientID, history)
}

func historyKey(patientID string) string {
	return fmt.Sprintf("fisio:chat:%s", patientID)
}
