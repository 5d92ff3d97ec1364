package bootstrap

import (
	"bizmail-be/internal/config"
	"bizmail-be/internal/controller"
	"bizmail-be/internal/pkg/logger"
	"bizmail-be/internal/repository/memory"
	"bizmail-be/internal/service"
	"bizmail-be/pkg/analytics"
	"bizmail-be/pkg/respcache"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const messageAddedTopic = "MESSAGE_ADDED"

// Container wires the whole application once at process start. The store and
// cache are single instances passed by reference, never package globals.
type Container struct {
	// Controllers
	ContextController   controller.IContextController
	ThreadController    controller.IThreadController
	AnalyticsController controller.IAnalyticsController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure
	Store  *memory.Store
	Cache  *respcache.ResponseCache
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	store := memory.NewStore()
	cache := respcache.New(cfg.Cache.Enabled, sysLogger)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Services
	publisherService := service.NewPublisherService(messageAddedTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, messageAddedTopic, cache, sysLogger)

	contextService := service.NewContextService(store)
	threadService := service.NewThreadService(store, publisherService, sysLogger)

	aggregator := analytics.NewAggregator(sysLogger)

	// 4. Controllers
	return &Container{
		ContextController:   controller.NewContextController(contextService),
		ThreadController:    controller.NewThreadController(threadService),
		AnalyticsController: controller.NewAnalyticsController(aggregator, store),

		ConsumerService: consumerService,

		Store:  store,
		Cache:  cache,
		Logger: sysLogger,
	}
}
