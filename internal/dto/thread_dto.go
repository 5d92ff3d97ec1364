package dto

import "time"

type CreateThreadRequest struct {
	Subject          string   `json:"subject" validate:"required"`
	CompanyContextId *int     `json:"company_context_id,omitempty"`
	ExtraDirectives  []string `json:"extra_directives,omitempty"`
	CustomPrompt     *string  `json:"custom_prompt,omitempty"`
}

// UpdateThreadDirectivesRequest distinguishes "field omitted" (nil pointer,
// leave as-is) from "field provided" (normalize, then overwrite).
type UpdateThreadDirectivesRequest struct {
	Id              int       `json:"-"`
	ExtraDirectives *[]string `json:"extra_directives,omitempty"`
	CustomPrompt    *string   `json:"custom_prompt,omitempty"`
}

type ThreadResponse struct {
	Id               int       `json:"id"`
	Subject          string    `json:"subject"`
	CompanyContextId *int      `json:"company_context_id,omitempty"`
	ExtraDirectives  []string  `json:"extra_directives,omitempty"`
	CustomPrompt     *string   `json:"custom_prompt,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type AddMessageRequest struct {
	MessageType           string   `json:"message_type" validate:"required,oneof=incoming outgoing"`
	Subject               string   `json:"subject" validate:"required"`
	Body                  string   `json:"body" validate:"required"`
	SenderName            *string  `json:"sender_name,omitempty"`
	SenderPosition        *string  `json:"sender_position,omitempty"`
	GenerationTimeSeconds *float64 `json:"generation_time_seconds,omitempty" validate:"omitempty,gte=0"`
}

type MessageResponse struct {
	Id                    int       `json:"id"`
	ThreadId              int       `json:"thread_id"`
	MessageType           string    `json:"message_type"`
	Subject               string    `json:"subject"`
	Body                  string    `json:"body"`
	SenderName            *string   `json:"sender_name,omitempty"`
	SenderPosition        *string   `json:"sender_position,omitempty"`
	GenerationTimeSeconds *float64  `json:"generation_time_seconds,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

type ThreadHistoryResponse struct {
	ThreadId int    `json:"thread_id"`
	History  string `json:"history"`
}

// MessageAddedEvent is the payload published on the in-process bus whenever
// a message is appended to a thread.
type MessageAddedEvent struct {
	ThreadId    int       `json:"thread_id"`
	MessageId   int       `json:"message_id"`
	MessageType string    `json:"message_type"`
	CreatedAt   time.Time `json:"created_at"`
}
