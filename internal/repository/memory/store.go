package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bizmail-be/internal/entity"
	"bizmail-be/internal/repository/contract"
)

// Store is the in-memory record store. All collections live behind one
// coarse lock; ids are auto-incrementing and never reused. State is lost on
// process restart.
type Store struct {
	mu sync.RWMutex

	contexts map[int]*entity.CompanyContext
	threads  map[int]*entity.Thread
	messages map[int]*entity.Message

	contextCounter int
	threadCounter  int
	messageCounter int

	clock func() time.Time
}

func NewStore() *Store {
	return &Store{
		contexts:       make(map[int]*entity.CompanyContext),
		threads:        make(map[int]*entity.Thread),
		messages:       make(map[int]*entity.Message),
		contextCounter: 1,
		threadCounter:  1,
		messageCounter: 1,
		clock:          time.Now,
	}
}

var _ contract.Store = (*Store)(nil)

// SetClock overrides the timestamp source. Used by the seeder and tests to
// create backdated records; production code never calls it.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clock == nil {
		clock = time.Now
	}
	s.clock = clock
}

func (s *Store) CreateContext(_ context.Context, name, contextText string, description *string) (*entity.CompanyContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	c := &entity.CompanyContext{
		Id:          s.contextCounter,
		Name:        name,
		ContextText: contextText,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.contextCounter++
	s.contexts[c.Id] = c
	return cloneContext(c), nil
}

func (s *Store) GetContext(_ context.Context, id int) (*entity.CompanyContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneContext(s.contexts[id]), nil
}

func (s *Store) ListContexts(_ context.Context, skip, limit int) ([]*entity.CompanyContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*entity.CompanyContext, 0, len(s.contexts))
	for _, id := range sortedKeys(s.contexts) {
		all = append(all, cloneContext(s.contexts[id]))
	}
	return paginate(all, skip, limit), nil
}

func (s *Store) UpdateContext(_ context.Context, id int, name, contextText, description *string) (*entity.CompanyContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contexts[id]
	if !ok {
		return nil, nil
	}
	if name != nil {
		c.Name = *name
	}
	if contextText != nil {
		c.ContextText = *contextText
	}
	if description != nil {
		c.Description = description
	}
	c.UpdatedAt = s.clock()
	return cloneContext(c), nil
}

func (s *Store) DeleteContext(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contexts[id]; !ok {
		return false, nil
	}
	// No cascade: threads keep a dangling company_context_id.
	delete(s.contexts, id)
	return true, nil
}

func (s *Store) CreateThread(_ context.Context, subject string, companyContextId *int, extraDirectives []string, customPrompt *string) (*entity.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	t := &entity.Thread{
		Id:               s.threadCounter,
		Subject:          subject,
		CompanyContextId: companyContextId,
		ExtraDirectives:  normalizeDirectives(extraDirectives),
		CustomPrompt:     normalizePrompt(customPrompt),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.threadCounter++
	s.threads[t.Id] = t
	return cloneThread(t), nil
}

func (s *Store) GetThread(_ context.Context, id int) (*entity.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneThread(s.threads[id]), nil
}

func (s *Store) ListThreads(_ context.Context, skip, limit int) ([]*entity.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*entity.Thread, 0, len(s.threads))
	for _, id := range sortedKeys(s.threads) {
		all = append(all, cloneThread(s.threads[id]))
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	return paginate(all, skip, limit), nil
}

func (s *Store) UpdateThreadDirectives(_ context.Context, id int, extraDirectives *[]string, customPrompt *string) (*entity.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return nil, nil
	}
	if extraDirectives != nil {
		t.ExtraDirectives = normalizeDirectives(*extraDirectives)
	}
	if customPrompt != nil {
		t.CustomPrompt = normalizePrompt(customPrompt)
	}
	t.UpdatedAt = s.clock()
	return cloneThread(t), nil
}

func (s *Store) AddMessage(_ context.Context, threadId int, messageType entity.MessageType, subject, body string, senderName, senderPosition *string, generationTimeSeconds *float64) (*entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	m := &entity.Message{
		Id:                    s.messageCounter,
		ThreadId:              threadId,
		MessageType:           messageType,
		Subject:               subject,
		Body:                  body,
		SenderName:            senderName,
		SenderPosition:        senderPosition,
		GenerationTimeSeconds: generationTimeSeconds,
		CreatedAt:             now,
	}
	s.messageCounter++
	s.messages[m.Id] = m

	// A dangling threadId is accepted; only an existing thread is touched.
	if t, ok := s.threads[threadId]; ok {
		t.UpdatedAt = now
	}
	return cloneMessage(m), nil
}

func (s *Store) GetThreadMessages(_ context.Context, threadId int) ([]*entity.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*entity.Message
	for _, id := range sortedKeys(s.messages) {
		if m := s.messages[id]; m.ThreadId == threadId {
			res = append(res, cloneMessage(m))
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (s *Store) GetMessagesInPeriod(_ context.Context, start, end time.Time) ([]*entity.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*entity.Message
	for _, id := range sortedKeys(s.messages) {
		if m := s.messages[id]; inPeriod(m.CreatedAt, start, end) {
			res = append(res, cloneMessage(m))
		}
	}
	return res, nil
}

func (s *Store) GetThreadsInPeriod(_ context.Context, start, end time.Time) ([]*entity.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*entity.Thread
	for _, id := range sortedKeys(s.threads) {
		if t := s.threads[id]; inPeriod(t.CreatedAt, start, end) {
			res = append(res, cloneThread(t))
		}
	}
	return res, nil
}

// inPeriod is inclusive on both bounds.
func inPeriod(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}

func normalizeDirectives(directives []string) []string {
	if len(directives) == 0 {
		return nil
	}
	out := make([]string, len(directives))
	copy(out, directives)
	return out
}

func normalizePrompt(prompt *string) *string {
	if prompt == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*prompt)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit >= 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}

func cloneContext(c *entity.CompanyContext) *entity.CompanyContext {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Description = clonePtr(c.Description)
	return &cp
}

func cloneThread(t *entity.Thread) *entity.Thread {
	if t == nil {
		return nil
	}
	cp := *t
	cp.CompanyContextId = clonePtr(t.CompanyContextId)
	cp.CustomPrompt = clonePtr(t.CustomPrompt)
	if t.ExtraDirectives != nil {
		cp.ExtraDirectives = make([]string, len(t.ExtraDirectives))
		copy(cp.ExtraDirectives, t.ExtraDirectives)
	}
	return &cp
}

func cloneMessage(m *entity.Message) *entity.Message {
	if m == nil {
		return nil
	}
	cp := *m
	cp.SenderName = clonePtr(m.SenderName)
	cp.SenderPosition = clonePtr(m.SenderPosition)
	cp.GenerationTimeSeconds = clonePtr(m.GenerationTimeSeconds)
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
