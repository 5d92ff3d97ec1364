package dto

import "time"

type CreateContextRequest struct {
	Name        string  `json:"name" validate:"required"`
	ContextText string  `json:"context_text" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type UpdateContextRequest struct {
	Id          int     `json:"-"`
	Name        *string `json:"name,omitempty"`
	ContextText *string `json:"context_text,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ContextResponse struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	ContextText string    `json:"context_text"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
