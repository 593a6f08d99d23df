package bootstrap

import (
	"context"
	"log"

	"sheets-editor-be/internal/config"
	"sheets-editor-be/internal/controller"
	"sheets-editor-be/internal/pkg/logger"
	"sheets-editor-be/internal/repository/cache"
	"sheets-editor-be/internal/repository/memory"
	"sheets-editor-be/internal/repository/unitofwork"
	"sheets-editor-be/internal/service"
	"sheets-editor-be/internal/websocket"
	"sheets-editor-be/pkg/embed"
	"sheets-editor-be/pkg/events"
	pktNats "sheets-editor-be/pkg/nats"
	"sheets-editor-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SheetController         controller.ISheetController
	EditorController        controller.IEditorController
	CitationController      controller.ICitationController
	SessionSocketController controller.ISessionSocketController

	// Background services, run by main.go
	ConsumerService   service.IConsumerService
	SheetEventService *service.SheetEventService
	WebSocketHub      *websocket.Hub

	Logger *logger.ZapLogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 2. Save queue. Blocking publish keeps saves of one sheet in order.
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64, BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	var eventBus events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventBus = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	c.closers = append(c.closers, func() { rdb.Close() })

	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Editor components
	sessionRepo := memory.NewSessionRepository(cfg.Editor.SessionTTL)
	sessionRepo.OnEvicted(func(session *store.EditSession) {
		sysLogger.Info("SessionRepository", "Session evicted", map[string]interface{}{"session_id": session.ID, "sheet_id": session.SheetID})
	})

	resolver := embed.NewHTTPResolver(cfg.Editor.ResolveTimeout, cache.NewLinkCache(rdb, cfg.Editor.LinkCacheTTL), sysLogger)
	classifier := embed.NewClassifier(
		embed.WithResolver(resolver),
		embed.WithLogger(sysLogger),
		embed.WithShareImageBaseURL(cfg.Editor.ShareImageBaseURL),
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Editor.SaveTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Editor.SaveTopic,
		uowFactory,
		eventBus,
		wsHub,
		cfg.Editor.SaveDebounce,
		sysLogger,
	)
	if natsSub != nil {
		c.SheetEventService = service.NewSheetEventService(natsSub, wsHub, wsLogger)
	}

	sheetService := service.NewSheetService(uowFactory, eventBus, sysLogger)
	editorService := service.NewEditorService(
		uowFactory,
		sessionRepo,
		classifier,
		publisherService,
		wsHub,
		cfg.Editor.ResolveTimeout,
		sysLogger,
	)
	citationService := service.NewCitationService(cfg.Editor.CitationLiteralThreshold)

	// 6. Controllers
	c.SheetController = controller.NewSheetController(sheetService)
	c.EditorController = controller.NewEditorController(editorService)
	c.CitationController = controller.NewCitationController(citationService)
	c.SessionSocketController = controller.NewSessionSocketController(editorService, wsHub, wsLogger)
	c.WebSocketHub = wsHub

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
