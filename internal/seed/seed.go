package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"bizmail-be/internal/entity"
	"bizmail-be/internal/pkg/logger"
	"bizmail-be/internal/repository/memory"
)

var subjects = []string{
	"Loan inquiry",
	"Account opening",
	"Technical issue with online banking",
	"Statement request",
	"Tariff plan change",
	"Card blocked",
	"Mortgage consultation",
	"Transfer question",
	"Mobile app setup",
	"SMS alerts activation",
}

var directiveSets = [][]string{
	{"Business style"},
	{"Short answer"},
	{"Business style", "With examples"},
}

// MockData fills the store with dev/demo records: three contexts plus ~30
// days of threads and alternating messages. Backdating goes through the
// store clock, so this must run before the store serves traffic.
func MockData(ctx context.Context, store *memory.Store, log logger.ILogger) error {
	// Fixed seed keeps demo data reproducible between restarts.
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	defer store.SetClock(nil)

	contextIds := make([]*int, 0, 4)
	contextIds = append(contextIds, nil)
	seedContexts := []struct {
		name, text, description string
	}{
		{"PSB Bank", "A large retail bank offering a wide range of financial services.", "Primary bank context"},
		{"IT Department", "The bank's IT division handling technical support and development.", "IT department context"},
		{"Customer Support", "The bank's client-facing support desk.", "Support context"},
	}
	for _, sc := range seedContexts {
		desc := sc.description
		c, err := store.CreateContext(ctx, sc.name, sc.text, &desc)
		if err != nil {
			return fmt.Errorf("seed context: %w", err)
		}
		id := c.Id
		contextIds = append(contextIds, &id)
	}

	threadCount := 0
	messageCount := 0
	for day := 0; day < 30; day++ {
		date := now.AddDate(0, 0, -day)
		numThreads := 2 + rng.Intn(5)

		for i := 0; i < numThreads; i++ {
			createdAt := date.Add(-time.Duration(rng.Intn(24)) * time.Hour)
			store.SetClock(func() time.Time { return createdAt })

			var directives []string
			if rng.Float64() > 0.6 {
				directives = directiveSets[rng.Intn(len(directiveSets))]
			}
			var customPrompt *string
			if rng.Float64() > 0.7 {
				p := "Urgent request from a VIP client"
				customPrompt = &p
			}

			thread, err := store.CreateThread(ctx,
				subjects[rng.Intn(len(subjects))],
				contextIds[rng.Intn(len(contextIds))],
				directives,
				customPrompt,
			)
			if err != nil {
				return fmt.Errorf("seed thread: %w", err)
			}
			threadCount++

			numMessages := 2 + rng.Intn(4)
			for m := 0; m < numMessages; m++ {
				msgAt := createdAt.Add(time.Duration(m*15) * time.Minute)
				store.SetClock(func() time.Time { return msgAt })

				msgType := entity.MessageTypeIncoming
				sender, position := "Ivan Petrov", "Client"
				var genTime *float64
				if m%2 == 1 {
					msgType = entity.MessageTypeOutgoing
					sender, position = "Bank Operator", "Support specialist"
					g := float64(int((1.5+rng.Float64()*3.0)*100)) / 100
					genTime = &g
				}

				_, err := store.AddMessage(ctx, thread.Id, msgType,
					thread.Subject,
					fmt.Sprintf("Message %d in the conversation", m+1),
					&sender, &position, genTime,
				)
				if err != nil {
					return fmt.Errorf("seed message: %w", err)
				}
				messageCount++
			}
		}
	}

	log.Info("seed", "Mock data initialized", map[string]interface{}{
		"contexts": len(seedContexts),
		"threads":  threadCount,
		"messages": messageCount,
	})
	return nil
}
