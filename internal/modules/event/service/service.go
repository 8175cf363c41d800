package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/kulupportal/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event types pushed to connected clients so they drop cached role and
// status and ask the server again.
const (
	TypeMemberUpdated  = "member.updated"
	TypeMemberRemoved  = "member.removed"
	TypeProjectChanged = "project.changed"
)

type Event struct {
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"userId"`
	SubjectID uuid.UUID `json:"subjectId,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, eventType string, subjectID uuid.UUID)
	Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error)
	Enabled() bool
}

type publisher struct {
	redisClient *redis.Client
}

// NewPublisher returns a publisher backed by redis. A nil client gives a
// publisher that drops every event.
func NewPublisher(redisClient *redis.Client) Publisher {
	return &publisher{redisClient: redisClient}
}

func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_events:%s", userID.String())
}

// Publish is best effort: a failed publish is logged and never fails the
// write that triggered it.
func (p *publisher) Publish(ctx context.Context, userID uuid.UUID, eventType string, subjectID uuid.UUID) {
	if p.redisClient == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Type:      eventType,
		UserID:    userID,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return
	}

	if err := p.redisClient.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		logger.Warn(ctx, "publish event failed",
			zap.String("type", eventType),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

func (p *publisher) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	if p.redisClient == nil {
		return nil, fmt.Errorf("event stream unavailable")
	}

	pubsub := p.redisClient.Subscribe(ctx, Channel(userID))
	// wait for the subscription to be confirmed before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	return pubsub, nil
}

func (p *publisher) Enabled() bool {
	return p.redisClient != nil
}
