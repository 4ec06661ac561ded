package bootstrap

import (
	"context"
	"log"

	"clinic-voice-be/internal/config"
	"clinic-voice-be/internal/controller"
	"clinic-voice-be/internal/handler"
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/pkg/mailer"
	"clinic-voice-be/internal/pkg/sms"
	"clinic-voice-be/internal/repository/contract"
	"clinic-voice-be/internal/repository/implementation"
	"clinic-voice-be/internal/repository/memory"
	"clinic-voice-be/internal/service"
	"clinic-voice-be/internal/websocket"
	"clinic-voice-be/pkg/agent"
	"clinic-voice-be/pkg/database"
	"clinic-voice-be/pkg/embedding"
	"clinic-voice-be/pkg/policy"
	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
	"clinic-voice-be/pkg/verify"

	pktNats "clinic-voice-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const clinicEventsTopic = "clinic-events"

type Container struct {
	// Controllers
	ConversationController controller.IConversationController
	AdminController        controller.IAdminController

	// Background services (exposed for main.go to run)
	NotificationService service.INotificationService

	// WebSockets
	QueueMonitorHandler *handler.QueueMonitorHandler
	WebSocketHub        *websocket.Hub

	// Exposed for the CLI and for graceful shutdown
	Conversation service.IConversationService
	NatsPub      *pktNats.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)
	smsService := sms.NewLogSMSService(sysLogger)

	// 2. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Sessions fall back to process memory", err)
		rdb = nil
	}

	// Session tiers: Redis is durable, go-cache catches Redis outages
	var primaryStore session.Store
	if rdb != nil {
		primaryStore = session.NewRedisStore(rdb, cfg.Session.TTL)
	}
	sessionManager := session.NewManager(primaryStore, cfg.Session.TTL, sysLogger)

	// Clinic data: postgres when configured, seeded process memory otherwise
	var (
		patientRepo     contract.PatientRepository
		doctorRepo      contract.DoctorRepository
		appointmentRepo contract.AppointmentRepository
		waitlistRepo    contract.WaitlistRepository
		preferenceRepo  contract.PreferenceRepository
	)
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to database: %v", err)
		}
		patientRepo = implementation.NewPatientRepository(db)
		doctorRepo = implementation.NewDoctorRepository(db)
		appointmentRepo = implementation.NewAppointmentRepository(db)
		waitlistRepo = implementation.NewWaitlistRepository(db)
		preferenceRepo = implementation.NewPreferenceRepository(db)
		log.Printf("[INFO] Using postgres clinic repositories")
	} else {
		patientRepo = memory.NewPatientDirectory()
		doctorRepo = memory.NewDoctorDirectory()
		appointmentRepo = memory.NewAppointmentBook()
		waitlistRepo = memory.NewWaitlistStore()
		preferenceRepo = memory.NewPreferenceStore()
		log.Printf("[INFO] Using in-memory clinic repositories (demo mode)")
	}

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewLocalProvider(768)
		log.Printf("[INFO] Using Embedding Provider: LOCAL")
	}

	// Model runtime
	runtime := agent.NewOpenAIRuntime(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, cfg.Ai.Model)
	log.Printf("[INFO] Using agent model: %s", cfg.Ai.Model)

	// In-process event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(clinicEventsTopic, pubSub)

	// WebSocket hub for the ops queue feed
	wsLogger := logger.NewIsolatedLogger("logs/queue_feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Domain services
	verifier := verify.NewVerifier(cfg.OTP.MaxAttempts, cfg.OTP.CodeTTL)
	schedulingService := service.NewSchedulingService(doctorRepo, appointmentRepo, waitlistRepo, publisherService, natsPub, sysLogger)
	handoffService := service.NewHandoffService(wsHub, natsPub, sysLogger)
	preferenceService := service.NewPreferenceService(preferenceRepo, embeddingProvider, sysLogger)
	policyCorpus := policy.NewCorpus(policy.DefaultDocuments())

	toolset := service.NewToolset(
		cfg,
		patientRepo,
		verifier,
		smsService,
		schedulingService,
		handoffService,
		preferenceService,
		policyCorpus,
		publisherService,
		sysLogger,
	)
	gate := toolgate.NewGate(toolset.BuildRegistry(), sysLogger)

	conversationService := service.NewConversationService(sessionManager, runtime, gate, cfg.Agent, sysLogger)
	adminService := service.NewAdminService(sessionManager, sysLogger)
	notificationService := service.NewNotificationService(pubSub, clinicEventsTopic, patientRepo, emailService, smsService)

	// 4. Controllers
	conversationController := controller.NewConversationController(conversationService)
	adminController := controller.NewAdminController(adminService)
	queueMonitorHandler := handler.NewQueueMonitorHandler(wsHub, sysLogger)

	return &Container{
		ConversationController: conversationController,
		AdminController:        adminController,
		NotificationService:    notificationService,
		QueueMonitorHandler:    queueMonitorHandler,
		WebSocketHub:           wsHub,
		Conversation:           conversationService,
		NatsPub:                natsPub,
	}
}
