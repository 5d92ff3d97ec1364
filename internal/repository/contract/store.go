package contract

import (
	"context"
	"time"

	"bizmail-be/internal/entity"
)

// Store holds the three record collections (contexts, threads, messages).
// Lookup misses return (nil, nil); callers decide the HTTP-level outcome.
type Store interface {
	CreateContext(ctx context.Context, name, contextText string, description *string) (*entity.CompanyContext, error)
	GetContext(ctx context.Context, id int) (*entity.CompanyContext, error)
	ListContexts(ctx context.Context, skip, limit int) ([]*entity.CompanyContext, error)
	UpdateContext(ctx context.Context, id int, name, contextText, description *string) (*entity.CompanyContext, error)
	DeleteContext(ctx context.Context, id int) (bool, error)

	CreateThread(ctx context.Context, subject string, companyContextId *int, extraDirectives []string, customPrompt *string) (*entity.Thread, error)
	GetThread(ctx context.Context, id int) (*entity.Thread, error)
	ListThreads(ctx context.Context, skip, limit int) ([]*entity.Thread, error)
	UpdateThreadDirectives(ctx context.Context, id int, extraDirectives *[]string, customPrompt *string) (*entity.Thread, error)

	AddMessage(ctx context.Context, threadId int, messageType entity.MessageType, subject, body string, senderName, senderPosition *string, generationTimeSeconds *float64) (*entity.Message, error)
	GetThreadMessages(ctx context.Context, threadId int) ([]*entity.Message, error)
	GetMessagesInPeriod(ctx context.Context, start, end time.Time) ([]*entity.Message, error)
	GetThreadsInPeriod(ctx context.Context, start, end time.Time) ([]*entity.Thread, error)
}
