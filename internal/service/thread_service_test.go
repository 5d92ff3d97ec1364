package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"bizmail-be/internal/dto"
	"bizmail-be/internal/entity"
	"bizmail-be/internal/pkg/logger"
	"bizmail-be/internal/repository/memory"
	"bizmail-be/pkg/respcache"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewZapLogger(filepath.Join(t.TempDir(), "test.log"), false)
}

func newThreadService(t *testing.T) (IThreadService, *memory.Store, *gochannel.GoChannel) {
	t.Helper()
	store := memory.NewStore()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	svc := NewThreadService(store, NewPublisherService("MESSAGE_ADDED", pubSub), testLogger(t))
	return svc, store, pubSub
}

func TestThreadCreateNormalizesDegenerateInput(t *testing.T) {
	svc, _, _ := newThreadService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateThreadRequest{
		Subject:         "loan question",
		ExtraDirectives: []string{},
		CustomPrompt:    strPtr("   "),
	})
	require.NoError(t, err)
	assert.Nil(t, res.ExtraDirectives)
	assert.Nil(t, res.CustomPrompt)
}

func TestThreadShowMissing(t *testing.T) {
	svc, _, _ := newThreadService(t)

	res, err := svc.Show(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestAddMessagePublishesEvent(t *testing.T) {
	svc, _, pubSub := newThreadService(t)
	ctx := context.Background()

	messages, err := pubSub.Subscribe(ctx, "MESSAGE_ADDED")
	require.NoError(t, err)

	created, err := svc.Create(ctx, &dto.CreateThreadRequest{Subject: "subject"})
	require.NoError(t, err)

	msg, err := svc.AddMessage(ctx, created.Id, &dto.AddMessageRequest{
		MessageType: "incoming",
		Subject:     "subject",
		Body:        "body",
	})
	require.NoError(t, err)

	select {
	case received := <-messages:
		var event dto.MessageAddedEvent
		require.NoError(t, json.Unmarshal(received.Payload, &event))
		assert.Equal(t, created.Id, event.ThreadId)
		assert.Equal(t, msg.Id, event.MessageId)
		assert.Equal(t, "incoming", event.MessageType)
		received.Ack()
	case <-time.After(time.Second):
		t.Fatal("expected a message-added event")
	}
}

func TestConsumerClearsGenerationCache(t *testing.T) {
	store := memory.NewStore()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	cache := respcache.New(true, testLogger(t))
	svc := NewThreadService(store, NewPublisherService("MESSAGE_ADDED", pubSub), testLogger(t))

	consumer := NewConsumerService(pubSub, "MESSAGE_ADDED", cache, testLogger(t))
	ctx := context.Background()
	require.NoError(t, consumer.Consume(ctx))

	require.True(t, cache.SetGeneration("s", "b", "ctx", "ph", "reply", nil, nil, nil))

	created, err := svc.Create(ctx, &dto.CreateThreadRequest{Subject: "subject"})
	require.NoError(t, err)
	_, err = svc.AddMessage(ctx, created.Id, &dto.AddMessageRequest{
		MessageType: "outgoing",
		Subject:     "s",
		Body:        "b",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, found := cache.GetGeneration("s", "b", "ctx", "ph", nil, nil, nil)
		return !found
	}, time.Second, 10*time.Millisecond, "generation cache should be invalidated")
}

func TestFormatThreadHistory(t *testing.T) {
	empty := FormatThreadHistory(nil)
	assert.Equal(t, "", empty)

	pos := "Client"
	msgs := []*entity.Message{
		{
			MessageType: entity.MessageTypeIncoming,
			Subject:     "Card blocked",
			Body:        "My card stopped working.",
			SenderName:  strPtr("Ivan Petrov"),
			SenderPosition: func() *string {
				return &pos
			}(),
		},
		{
			MessageType: entity.MessageTypeOutgoing,
			Subject:     "Re: Card blocked",
			Body:        "We are looking into it.",
		},
	}

	history := FormatThreadHistory(msgs)
	assert.Contains(t, history, "Conversation history:")
	assert.Contains(t, history, "Incoming email from Ivan Petrov (Client):")
	assert.Contains(t, history, "Outgoing email:")
	assert.Contains(t, history, "Subject: Card blocked")
	assert.Contains(t, history, "Body: We are looking into it.")
}

func TestGetHistory(t *testing.T) {
	svc, store, _ := newThreadService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateThreadRequest{Subject: "subject"})
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, created.Id, entity.MessageTypeIncoming, "subject", "hello", nil, nil, nil)
	require.NoError(t, err)

	res, err := svc.GetHistory(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, res.ThreadId)
	assert.Contains(t, res.History, "Body: hello")
}
