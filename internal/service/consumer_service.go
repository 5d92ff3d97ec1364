package service

import (
	"context"
	"encoding/json"

	"bizmail-be/internal/dto"
	"bizmail-be/internal/pkg/logger"
	"bizmail-be/pkg/respcache"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService listens for message-added events and clears the generation
// namespace of the response cache: a cached reply keyed on a stale thread
// history must not be served after the thread grows.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	cache     *respcache.ResponseCache
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	cache *respcache.ResponseCache,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		cache:     cache,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var event dto.MessageAddedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cleared := cs.cache.ClearPattern(respcache.NamespaceGeneration)
	cs.logger.Debug("consumer", "Processed message-added event", map[string]interface{}{
		"thread_id":       event.ThreadId,
		"message_id":      event.MessageId,
		"cleared_entries": cleared,
	})
	msg.Ack()
}
