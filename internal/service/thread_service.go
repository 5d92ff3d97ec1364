package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bizmail-be/internal/dto"
	"bizmail-be/internal/entity"
	"bizmail-be/internal/pkg/logger"
	"bizmail-be/internal/repository/contract"
)

type IThreadService interface {
	Create(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	Show(ctx context.Context, id int) (*dto.ThreadResponse, error)
	GetAll(ctx context.Context, skip, limit int) ([]*dto.ThreadResponse, error)
	UpdateDirectives(ctx context.Context, req *dto.UpdateThreadDirectivesRequest) (*dto.ThreadResponse, error)
	AddMessage(ctx context.Context, threadId int, req *dto.AddMessageRequest) (*dto.MessageResponse, error)
	GetMessages(ctx context.Context, threadId int) ([]*dto.MessageResponse, error)
	GetHistory(ctx context.Context, threadId int) (*dto.ThreadHistoryResponse, error)
}

type threadService struct {
	store            contract.Store
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewThreadService(
	store contract.Store,
	publisherService IPublisherService,
	log logger.ILogger,
) IThreadService {
	return &threadService{
		store:            store,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *threadService) Create(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	t, err := s.store.CreateThread(ctx, req.Subject, req.CompanyContextId, req.ExtraDirectives, req.CustomPrompt)
	if err != nil {
		return nil, err
	}
	return threadToResponse(t), nil
}

func (s *threadService) Show(ctx context.Context, id int) (*dto.ThreadResponse, error) {
	t, err := s.store.GetThread(ctx, id)
	if err != nil {
		return nil, err
	}
	return threadToResponse(t), nil
}

func (s *threadService) GetAll(ctx context.Context, skip, limit int) ([]*dto.ThreadResponse, error) {
	threads, err := s.store.ListThreads(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ThreadResponse, 0, len(threads))
	for _, t := range threads {
		res = append(res, threadToResponse(t))
	}
	return res, nil
}

func (s *threadService) UpdateDirectives(ctx context.Context, req *dto.UpdateThreadDirectivesRequest) (*dto.ThreadResponse, error) {
	t, err := s.store.UpdateThreadDirectives(ctx, req.Id, req.ExtraDirectives, req.CustomPrompt)
	if err != nil {
		return nil, err
	}
	if t == nil {
		s.logger.Warn("thread", "Directive update on missing thread", map[string]interface{}{"thread_id": req.Id})
		return nil, nil
	}
	return threadToResponse(t), nil
}

func (s *threadService) AddMessage(ctx context.Context, threadId int, req *dto.AddMessageRequest) (*dto.MessageResponse, error) {
	m, err := s.store.AddMessage(
		ctx,
		threadId,
		entity.MessageType(req.MessageType),
		req.Subject,
		req.Body,
		req.SenderName,
		req.SenderPosition,
		req.GenerationTimeSeconds,
	)
	if err != nil {
		return nil, err
	}

	// Notify the invalidation worker. Delivery failure must not fail the write.
	event := dto.MessageAddedEvent{
		ThreadId:    m.ThreadId,
		MessageId:   m.Id,
		MessageType: string(m.MessageType),
		CreatedAt:   m.CreatedAt,
	}
	if payload, err := json.Marshal(event); err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("thread", "Failed to publish message-added event", map[string]interface{}{
				"thread_id": m.ThreadId,
				"error":     err.Error(),
			})
		}
	}

	return messageToResponse(m), nil
}

func (s *threadService) GetMessages(ctx context.Context, threadId int) ([]*dto.MessageResponse, error) {
	messages, err := s.store.GetThreadMessages(ctx, threadId)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, messageToResponse(m))
	}
	return res, nil
}

func (s *threadService) GetHistory(ctx context.Context, threadId int) (*dto.ThreadHistoryResponse, error) {
	messages, err := s.store.GetThreadMessages(ctx, threadId)
	if err != nil {
		return nil, err
	}
	return &dto.ThreadHistoryResponse{
		ThreadId: threadId,
		History:  FormatThreadHistory(messages),
	}, nil
}

// FormatThreadHistory renders ordered messages as a labeled transcript used
// as generation context.
func FormatThreadHistory(messages []*entity.Message) string {
	if len(messages) == 0 {
		return ""
	}

	lines := []string{"Conversation history:"}
	for _, m := range messages {
		direction := "Incoming email"
		if m.MessageType == entity.MessageTypeOutgoing {
			direction = "Outgoing email"
		}
		sender := ""
		if m.SenderName != nil {
			sender = fmt.Sprintf(" from %s", *m.SenderName)
			if m.SenderPosition != nil {
				sender += fmt.Sprintf(" (%s)", *m.SenderPosition)
			}
		}
		lines = append(lines,
			fmt.Sprintf("\n%s%s:", direction, sender),
			"Subject: "+m.Subject,
			"Body: "+m.Body,
			"---",
		)
	}
	return strings.Join(lines, "\n")
}

func threadToResponse(t *entity.Thread) *dto.ThreadResponse {
	if t == nil {
		return nil
	}
	return &dto.ThreadResponse{
		Id:               t.Id,
		Subject:          t.Subject,
		CompanyContextId: t.CompanyContextId,
		ExtraDirectives:  t.ExtraDirectives,
		CustomPrompt:     t.CustomPrompt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func messageToResponse(m *entity.Message) *dto.MessageResponse {
	if m == nil {
		return nil
	}
	return &dto.MessageResponse{
		Id:                    m.Id,
		ThreadId:              m.ThreadId,
		MessageType:           string(m.MessageType),
		Subject:               m.Subject,
		Body:                  m.Body,
		SenderName:            m.SenderName,
		SenderPosition:        m.SenderPosition,
		GenerationTimeSeconds: m.GenerationTimeSeconds,
		CreatedAt:             m.CreatedAt,
	}
}
