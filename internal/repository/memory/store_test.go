package memory

import (
	"context"
	"testing"
	"time"

	"bizmail-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestContextCRUD(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.CreateContext(ctx, "Support Desk", "Customer support department.", strPtr("Support context"))
	require.NoError(t, err)
	assert.Equal(t, 1, created.Id)
	assert.Equal(t, "Support Desk", created.Name)
	require.NotNil(t, created.Description)

	second, err := store.CreateContext(ctx, "IT Department", "Internal IT.", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Id, "ids must be monotonically increasing")

	got, err := store.GetContext(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Support Desk", got.Name)

	missing, err := store.GetContext(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := store.UpdateContext(ctx, 1, strPtr("Helpdesk"), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Helpdesk", updated.Name)
	assert.Equal(t, "Customer support department.", updated.ContextText, "unset fields stay untouched")
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	noSuch, err := store.UpdateContext(ctx, 999, strPtr("x"), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, noSuch)

	ok, err := store.DeleteContext(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.DeleteContext(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "second delete reports missing")
}

func TestListContextsPagination(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := store.CreateContext(ctx, "ctx", "text", nil)
		require.NoError(t, err)
	}

	page, err := store.ListContexts(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 2, page[0].Id)
	assert.Equal(t, 3, page[1].Id)

	tail, err := store.ListContexts(ctx, 4, 10)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, 5, tail[0].Id)

	empty, err := store.ListContexts(ctx, 50, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateThreadNormalization(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	tests := []struct {
		name           string
		directives     []string
		customPrompt   *string
		wantDirectives []string
		wantPrompt     *string
	}{
		{
			name:       "empty directives normalize to absent",
			directives: []string{},
		},
		{
			name:         "blank prompt normalizes to absent",
			customPrompt: strPtr("   "),
		},
		{
			name:         "prompt is trimmed",
			customPrompt: strPtr("  urgent  "),
			wantPrompt:   strPtr("urgent"),
		},
		{
			name:           "non-empty directives kept",
			directives:     []string{"formal tone"},
			wantDirectives: []string{"formal tone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := store.CreateThread(ctx, "subject", nil, tt.directives, tt.customPrompt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDirectives, th.ExtraDirectives)
			if tt.wantPrompt == nil {
				assert.Nil(t, th.CustomPrompt)
			} else {
				require.NotNil(t, th.CustomPrompt)
				assert.Equal(t, *tt.wantPrompt, *th.CustomPrompt)
			}
		})
	}
}

func TestUpdateThreadDirectives(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	th, err := store.CreateThread(ctx, "subject", nil, []string{"formal tone"}, strPtr("keep it short"))
	require.NoError(t, err)

	// Omitted fields stay untouched.
	updated, err := store.UpdateThreadDirectives(ctx, th.Id, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, []string{"formal tone"}, updated.ExtraDirectives)
	require.NotNil(t, updated.CustomPrompt)

	// Provided-but-empty clears.
	cleared := []string{}
	updated, err = store.UpdateThreadDirectives(ctx, th.Id, &cleared, strPtr("  "))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Nil(t, updated.ExtraDirectives)
	assert.Nil(t, updated.CustomPrompt)

	missing, err := store.UpdateThreadDirectives(ctx, 999, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListThreadsOrderedByUpdatedAtDesc(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.SetClock(func() time.Time { return now })

	first, err := store.CreateThread(ctx, "first", nil, nil, nil)
	require.NoError(t, err)
	now = base.Add(time.Minute)
	second, err := store.CreateThread(ctx, "second", nil, nil, nil)
	require.NoError(t, err)

	// Touching the first thread moves it to the front.
	now = base.Add(2 * time.Minute)
	_, err = store.AddMessage(ctx, first.Id, entity.MessageTypeIncoming, "s", "b", nil, nil, nil)
	require.NoError(t, err)

	threads, err := store.ListThreads(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, first.Id, threads[0].Id)
	assert.Equal(t, second.Id, threads[1].Id)
}

func TestAddMessage(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.SetClock(func() time.Time { return now })

	th, err := store.CreateThread(ctx, "subject", nil, nil, nil)
	require.NoError(t, err)

	now = base.Add(time.Hour)
	gen := 2.5
	msg, err := store.AddMessage(ctx, th.Id, entity.MessageTypeOutgoing, "re: subject", "body", strPtr("Operator"), nil, &gen)
	require.NoError(t, err)
	assert.Equal(t, 1, msg.Id)
	assert.Equal(t, entity.MessageTypeOutgoing, msg.MessageType)

	got, err := store.GetThread(ctx, th.Id)
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt, "appending touches the thread")

	// Dangling thread id is accepted, no referential error.
	orphan, err := store.AddMessage(ctx, 999, entity.MessageTypeIncoming, "s", "b", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, orphan.Id)
}

func TestGetThreadMessagesOrdered(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.SetClock(func() time.Time { return now })

	th, err := store.CreateThread(ctx, "subject", nil, nil, nil)
	require.NoError(t, err)
	other, err := store.CreateThread(ctx, "other", nil, nil, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		now = base.Add(time.Duration(i) * time.Minute)
		_, err = store.AddMessage(ctx, th.Id, entity.MessageTypeIncoming, "s", "b", nil, nil, nil)
		require.NoError(t, err)
	}
	_, err = store.AddMessage(ctx, other.Id, entity.MessageTypeIncoming, "s", "b", nil, nil, nil)
	require.NoError(t, err)

	msgs, err := store.GetThreadMessages(ctx, th.Id)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
		assert.Equal(t, th.Id, msgs[i].ThreadId)
	}
}

func TestPeriodScansInclusiveBounds(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	now := base
	store.SetClock(func() time.Time { return now })

	for day := 0; day < 5; day++ {
		now = base.AddDate(0, 0, day)
		th, err := store.CreateThread(ctx, "t", nil, nil, nil)
		require.NoError(t, err)
		_, err = store.AddMessage(ctx, th.Id, entity.MessageTypeIncoming, "s", "b", nil, nil, nil)
		require.NoError(t, err)
	}

	start := base.AddDate(0, 0, 1)
	end := base.AddDate(0, 0, 3)

	threads, err := store.GetThreadsInPeriod(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, threads, 3, "both bounds are inclusive")

	msgs, err := store.GetMessagesInPeriod(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestDeleteContextLeavesThreadDangling(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	c, err := store.CreateContext(ctx, "ctx", "text", nil)
	require.NoError(t, err)
	th, err := store.CreateThread(ctx, "subject", intPtr(c.Id), nil, nil)
	require.NoError(t, err)

	ok, err := store.DeleteContext(ctx, c.Id)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.GetThread(ctx, th.Id)
	require.NoError(t, err)
	require.NotNil(t, got.CompanyContextId)
	assert.Equal(t, c.Id, *got.CompanyContextId, "reference stays after context deletion")
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	th, err := store.CreateThread(ctx, "subject", nil, []string{"formal tone"}, nil)
	require.NoError(t, err)
	th.ExtraDirectives[0] = "mutated"
	th.Subject = "mutated"

	got, err := store.GetThread(ctx, th.Id)
	require.NoError(t, err)
	assert.Equal(t, "subject", got.Subject)
	assert.Equal(t, []string{"formal tone"}, got.ExtraDirectives)
}
