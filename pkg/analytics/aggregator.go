package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"bizmail-be/internal/dto"
	"bizmail-be/internal/entity"
	"bizmail-be/internal/pkg/logger"
	"bizmail-be/internal/repository/contract"
)

// NoContextLabel is the catch-all bucket for threads without a resolvable
// company context.
const NoContextLabel = "No Context"

const dateLayout = "2006-01-02"

// Aggregator computes derived statistics over record store query results.
// It keeps no state of its own.
type Aggregator struct {
	logger logger.ILogger
	now    func() time.Time
}

func NewAggregator(log logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: log,
		now:    time.Now,
	}
}

// SetClock overrides the window anchor. Test hook only.
func (a *Aggregator) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	a.now = now
}

func (a *Aggregator) window(days int) (time.Time, time.Time) {
	end := a.now()
	start := end.AddDate(0, 0, -days)
	return start, end
}

// Overview returns the headline counts for the window.
func (a *Aggregator) Overview(ctx context.Context, store contract.Store, days int) (*dto.AnalyticsOverviewResponse, error) {
	start, end := a.window(days)

	threads, err := store.GetThreadsInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	messages, err := store.GetMessagesInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	res := &dto.AnalyticsOverviewResponse{
		PeriodDays:    days,
		TotalThreads:  len(threads),
		TotalMessages: len(messages),
	}

	var genTimeSum float64
	var genTimeCount int
	for _, m := range messages {
		switch m.MessageType {
		case entity.MessageTypeIncoming:
			res.IncomingMessages++
		case entity.MessageTypeOutgoing:
			res.OutgoingMessages++
			if m.GenerationTimeSeconds != nil && *m.GenerationTimeSeconds > 0 {
				genTimeSum += *m.GenerationTimeSeconds
				genTimeCount++
			}
		}
	}

	for _, t := range threads {
		if t.HasDirectives() {
			res.ThreadsWithDirectives++
		}
	}

	if genTimeCount > 0 {
		res.AvgResponseTimeSeconds = round2(genTimeSum / float64(genTimeCount))
	}
	return res, nil
}

// MessagesByDay buckets messages by calendar date. Dates without messages
// are omitted; output is sorted ascending by date.
func (a *Aggregator) MessagesByDay(ctx context.Context, store contract.Store, days int) (*dto.MessagesByDayResponse, error) {
	start, end := a.window(days)

	messages, err := store.GetMessagesInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*dto.MessagesByDayPoint)
	for _, m := range messages {
		dateStr := m.CreatedAt.Format(dateLayout)
		point, ok := byDate[dateStr]
		if !ok {
			point = &dto.MessagesByDayPoint{Date: dateStr}
			byDate[dateStr] = point
		}
		switch m.MessageType {
		case entity.MessageTypeIncoming:
			point.Incoming++
		case entity.MessageTypeOutgoing:
			point.Outgoing++
		}
	}

	data := make([]dto.MessagesByDayPoint, 0, len(byDate))
	for _, p := range byDate {
		data = append(data, *p)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Date < data[j].Date })

	return &dto.MessagesByDayResponse{Data: data, PeriodDays: days}, nil
}

// ThreadsByContext counts threads per resolved context name. Buckets keep
// first-seen order (deterministic: the store scans in id order); threads
// without a resolvable context land in the catch-all bucket, appended last
// only when non-empty.
func (a *Aggregator) ThreadsByContext(ctx context.Context, store contract.Store, days int) (*dto.ThreadsByContextResponse, error) {
	start, end := a.window(days)

	threads, err := store.GetThreadsInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var data []dto.ThreadsByContextBucket
	index := make(map[string]int)
	withoutContext := 0

	for _, t := range threads {
		if t.CompanyContextId == nil {
			withoutContext++
			continue
		}
		c, err := store.GetContext(ctx, *t.CompanyContextId)
		if err != nil {
			return nil, err
		}
		if c == nil {
			// Dangling reference after a context deletion.
			withoutContext++
			continue
		}
		if i, ok := index[c.Name]; ok {
			data[i].Count++
		} else {
			index[c.Name] = len(data)
			data = append(data, dto.ThreadsByContextBucket{Name: c.Name, Count: 1})
		}
	}

	if withoutContext > 0 {
		data = append(data, dto.ThreadsByContextBucket{Name: NoContextLabel, Count: withoutContext})
	}

	return &dto.ThreadsByContextResponse{Data: data, PeriodDays: days}, nil
}

// ThreadsGrowth returns per-day thread counts with a running cumulative
// total, ascending by date. Dates without threads are not synthesized.
func (a *Aggregator) ThreadsGrowth(ctx context.Context, store contract.Store, days int) (*dto.ThreadsGrowthResponse, error) {
	start, end := a.window(days)

	threads, err := store.GetThreadsInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int)
	for _, t := range threads {
		byDate[t.CreatedAt.Format(dateLayout)]++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	cumulative := 0
	data := make([]dto.ThreadsGrowthPoint, 0, len(dates))
	for _, d := range dates {
		cumulative += byDate[d]
		data = append(data, dto.ThreadsGrowthPoint{
			Date:       d,
			Daily:      byDate[d],
			Cumulative: cumulative,
		})
	}

	return &dto.ThreadsGrowthResponse{Data: data, PeriodDays: days}, nil
}

// TopThreads ranks threads in the window by message count, descending.
// The sort is stable so ties keep their encountered order.
func (a *Aggregator) TopThreads(ctx context.Context, store contract.Store, days, limit int) (*dto.TopThreadsResponse, error) {
	start, end := a.window(days)

	threads, err := store.GetThreadsInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data := make([]dto.TopThreadRow, 0, len(threads))
	for _, t := range threads {
		messages, err := store.GetThreadMessages(ctx, t.Id)
		if err != nil {
			return nil, err
		}
		data = append(data, dto.TopThreadRow{
			Id:           t.Id,
			Subject:      t.Subject,
			MessageCount: len(messages),
			CreatedAt:    t.CreatedAt.Format(time.RFC3339),
			UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
		})
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].MessageCount > data[j].MessageCount
	})
	if limit >= 0 && len(data) > limit {
		data = data[:limit]
	}

	return &dto.TopThreadsResponse{Data: data, Limit: limit, PeriodDays: days}, nil
}

// DirectivesUsage reports how many threads carry directives or a custom
// prompt, plus the directive usage percentage.
func (a *Aggregator) DirectivesUsage(ctx context.Context, store contract.Store, days int) (*dto.DirectivesUsageResponse, error) {
	start, end := a.window(days)

	threads, err := store.GetThreadsInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	res := &dto.DirectivesUsageResponse{
		PeriodDays:   days,
		TotalThreads: len(threads),
	}
	for _, t := range threads {
		if t.HasDirectives() {
			res.ThreadsWithDirectives++
		}
		if t.HasCustomPrompt() {
			res.ThreadsWithCustomPrompt++
		}
	}

	if res.TotalThreads > 0 {
		res.DirectivesUsagePercentage = round2(float64(res.ThreadsWithDirectives) / float64(res.TotalThreads) * 100)
	}
	return res, nil
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
