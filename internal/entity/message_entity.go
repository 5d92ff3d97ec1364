package entity

import "time"

type MessageType string

const (
	MessageTypeIncoming MessageType = "incoming"
	MessageTypeOutgoing MessageType = "outgoing"
)

// Message is immutable once created. Ordering within a thread follows
// CreatedAt ascending, which matches id assignment order.
type Message struct {
	Id                    int
	ThreadId              int
	MessageType           MessageType
	Subject               string
	Body                  string
	SenderName            *string
	SenderPosition        *string
	GenerationTimeSeconds *float64 // meaningful for outgoing messages only
	CreatedAt             time.Time
}
