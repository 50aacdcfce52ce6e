package bootstrap

import (
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"venturebot-be/internal/config"
	"venturebot-be/internal/controller"
	"venturebot-be/internal/entity"
	"venturebot-be/internal/handler"
	"venturebot-be/internal/pkg/logger"
	"venturebot-be/internal/repository/implementation"
	"venturebot-be/internal/repository/memory"
	"venturebot-be/internal/service"
	ws "venturebot-be/internal/websocket"
	"venturebot-be/pkg/events"
	"venturebot-be/pkg/journey"
	"venturebot-be/pkg/llm/factory"
	"venturebot-be/pkg/market"
	pktNats "venturebot-be/pkg/nats"
)

type Container struct {
	Cfg    *config.Config
	Logger logger.ILogger

	JourneyController controller.IJourneyController
	StreamHandler     *handler.StreamHandler

	WebSocketHub  *ws.Hub
	EventBus      *events.Bus
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	if err := db.AutoMigrate(&entity.JourneySession{}, &entity.ChatMessage{}); err != nil {
		log.Printf("[WARN] Auto-migration failed: %v", err)
	}

	// 2. Event bus and realtime hub
	eventBus := events.NewBus()

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, running single-instance: %v", err)
		} else {
			rdb = redis.NewClient(opts)
		}
	}
	hub := ws.NewHub(rdb, sysLogger)
	go hub.Run()

	// 3. Language model and journey machinery
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Ai.GeminiAPIKey)
	if err != nil {
		log.Panicf("Unable to initialize LLM provider: %v", err)
	}

	executor := journey.NewExecutor(llmProvider, journey.ExecutorConfig{
		Retries:     cfg.Journey.SchemaRetries,
		Timeout:     cfg.Journey.LLMTimeout,
		Temperature: cfg.Ai.Temperature,
		MaxTokens:   cfg.Ai.MaxTokens,
	}, sysLogger)

	breaker := market.NewCircuitBreaker(cfg.Journey.BreakerThreshold, cfg.Journey.BreakerRecovery)
	searchProvider := market.NewLLMSearchProvider(llmProvider)
	engine := market.NewEngine(searchProvider, breaker, cfg.Journey.SearchTimeout, sysLogger)

	// 4. Persistence
	sessionRepo := implementation.NewJourneySessionRepository(db)
	messageRepo := implementation.NewChatMessageRepository(db)
	snapshotRepo := memory.NewSessionSnapshotRepository()

	// 5. Audit publisher (optional)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 6. Orchestrator and service surface
	sink := service.NewEventFanout(eventBus, natsPub, sysLogger)
	store := service.NewJourneyStore(sessionRepo, messageRepo, snapshotRepo)
	orchestrator := journey.NewOrchestrator(store, sink, executor, engine, journey.Config{
		NumIdeas: cfg.Journey.NumIdeas,
	}, sysLogger)

	journeyService := service.NewJourneyService(sessionRepo, messageRepo, snapshotRepo, orchestrator, sink, sysLogger)
	journeyController := controller.NewJourneyController(journeyService)
	streamHandler := handler.NewStreamHandler(hub, eventBus, journeyService, sysLogger)

	return &Container{
		Cfg:               cfg,
		Logger:            sysLogger,
		JourneyController: journeyController,
		StreamHandler:     streamHandler,
		WebSocketHub:      hub,
		EventBus:          eventBus,
		NatsPublisher:     natsPub,
	}
}
