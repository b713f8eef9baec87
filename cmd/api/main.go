package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadsync/internal/config"
	"github.com/xavierca1/leadsync/internal/infra/auth"
	"github.com/xavierca1/leadsync/internal/infra/database"
	"github.com/xavierca1/leadsync/internal/infra/http/handlers"
	appmw "github.com/xavierca1/leadsync/internal/infra/http/middleware"
	"github.com/xavierca1/leadsync/internal/infra/integration/google"
	"github.com/xavierca1/leadsync/internal/infra/mail"
	"github.com/xavierca1/leadsync/internal/infra/queue"
	"github.com/xavierca1/leadsync/internal/usecase"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	if err := cfg.RequireSync(); err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	if err := cfg.RequireSession(); err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("❌ Migração: %v", err)
	}

	// 1. Repositórios
	userRepo := database.NewUserRepository(db)
	companyRepo := database.NewCompanyRepository(db)
	agentRepo := database.NewAgentRepository(db)
	leadRepo := database.NewLeadRepository(db)
	callRepo := database.NewCallRepository(db)
	syncLogRepo := database.NewSyncLogRepository(db)
	sheetConfigRepo := database.NewSheetConfigRepository(db)

	// 2. Google
	signer, err := google.NewCredentialSigner(*cfg.ServiceAccount)
	if err != nil {
		log.Fatalf("❌ Service account: %v", err)
	}
	var fetcherOpts []google.FetcherOption
	if cfg.SheetsEndpoint != "" {
		fetcherOpts = append(fetcherOpts, google.WithEndpoint(cfg.SheetsEndpoint))
	}
	fetcher := google.NewSheetFetcher(fetcherOpts...)

	// 3. Fila (opcional) + worker de notificação
	var (
		publisher  usecase.SyncEventPublisher
		rabbitConn *amqp.Connection
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("❌ RabbitMQ: %v", err)
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		publisher = queue.NewProducer(rabbitMQ.Ch)

		var notifier queue.SyncNotifier
		if cfg.MailEnabled() {
			notifier = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.NotifyFrom, cfg.NotifyTo)
		}

		// canal próprio para o consumidor
		consumerCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			log.Fatalf("❌ RabbitMQ: %v", err)
		}
		worker := queue.NewWorker(consumerCh, notifier)
		go func() {
			if err := worker.Start(ctx, queue.QueueName); err != nil {
				log.Printf("❌ [WORKER] %v", err)
			}
		}()
	} else {
		log.Println("⚠️ RABBITMQ_URL vazio: eventos de sync não serão publicados")
	}

	// 4. UseCases
	recorder := appmw.NewRecorder()
	syncUC := usecase.NewSyncGoogleSheetsUseCase(
		userRepo, leadRepo, syncLogRepo, signer, fetcher, publisher, recorder, cfg.SheetsScope,
	)
	ingestUC := usecase.NewIngestCallUseCase(leadRepo, callRepo, companyRepo, agentRepo, recorder)
	insightsUC := usecase.NewLeadInsightsUseCase(userRepo, leadRepo)

	// 5. Handlers
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, version)
	syncHandler := handlers.NewSyncHandler(syncUC)
	syncLogHandler := handlers.NewSyncLogHandler(syncLogRepo)
	sheetConfigHandler := handlers.NewSheetConfigHandler(sheetConfigRepo)
	vapiHandler := handlers.NewVapiWebhookHandler(ingestUC, cfg.VapiWebhookSecret)
	analyticsHandler := handlers.NewAnalyticsHandler(insightsUC)

	verifier := auth.NewSessionVerifier([]byte(cfg.SessionSecret), cfg.SessionAudience)

	// 6. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Vapi-Secret"},
	}))
	r.Use(appmw.Metrics)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhooks/vapi", vapiHandler.Handle)

	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireSession(verifier))

		r.Post("/sync/google-sheets", syncHandler.Handle)
		r.Get("/sync/logs", syncLogHandler.List)
		r.Get("/integrations/google-sheets/config", sheetConfigHandler.Get)
		r.Put("/integrations/google-sheets/config", sheetConfigHandler.Put)
		r.Get("/analytics/leads", analyticsHandler.Leads)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🔥 Server LeadSync rodando na porta %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
