package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestPublisher_DeliversToUserChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	p := NewPublisher(rdb)
	require.True(t, p.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID := uuid.New()
	subject := uuid.New()
	sub, err := p.Subscribe(ctx, userID)
	require.NoError(t, err)
	defer sub.Close()

	// another user's event must not arrive on this channel
	p.Publish(ctx, uuid.New(), TypeMemberUpdated, subject)
	p.Publish(ctx, userID, TypeMemberUpdated, subject)

	select {
	case msg := <-sub.Channel():
		require.Equal(t, Channel(userID), msg.Channel)
		var evt Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		require.Equal(t, TypeMemberUpdated, evt.Type)
		require.Equal(t, userID, evt.UserID)
		require.Equal(t, subject, evt.SubjectID)
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}

func TestPublisher_NilRedisIsNoop(t *testing.T) {
	p := NewPublisher(nil)
	require.False(t, p.Enabled())

	p.Publish(context.Background(), uuid.New(), TypeMemberRemoved, uuid.Nil)

	_, err := p.Subscribe(context.Background(), uuid.New())
	require.Error(t, err)
}
