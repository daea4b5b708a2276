package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp091 "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gfduarte/funil-crm/internal/config"
	"github.com/gfduarte/funil-crm/internal/infra/cache"
	"github.com/gfduarte/funil-crm/internal/infra/database"
	"github.com/gfduarte/funil-crm/internal/infra/http/handlers"
	"github.com/gfduarte/funil-crm/internal/infra/http/middleware"
	"github.com/gfduarte/funil-crm/internal/infra/integration/crmapi"
	"github.com/gfduarte/funil-crm/internal/infra/integration/supabase"
	"github.com/gfduarte/funil-crm/internal/infra/mail"
	"github.com/gfduarte/funil-crm/internal/infra/queue"
	"github.com/gfduarte/funil-crm/internal/infra/storage"
	"github.com/gfduarte/funil-crm/internal/repository"
	"github.com/gfduarte/funil-crm/internal/usecase"
)

func main() {
	cfg := config.Load()

	local := storage.NewLocalStore(cfg.DataDir)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			logrus.WithError(err).Fatal("falha ao conectar no banco")
		}
		defer db.Close()
	}

	// 1. Camadas de persistência, da mais prioritária pra menos.
	// Leads: nuvem -> banco -> local. Mensagens: API primária -> nuvem -> local.
	var leadBackends []storage.LeadBackend
	var messageBackends []storage.MessageBackend

	if cfg.CRMAPIURL != "" {
		messageBackends = append(messageBackends, crmapi.NewClient(cfg.CRMAPIURL))
	}
	if cfg.SupabaseURL != "" {
		cloud := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		leadBackends = append(leadBackends, cloud)
		messageBackends = append(messageBackends, cloud)
	}
	if db != nil {
		leadBackends = append(leadBackends, database.NewLeadStore(db))
	}
	leadBackends = append(leadBackends, local)
	messageBackends = append(messageBackends, local)

	leadRepo := repository.NewLeadRepository(leadBackends...)
	messageRepo := repository.NewMessageRepository(messageBackends...)

	// 2. Cache das visões de leitura
	var viewCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.WithError(err).Fatal("REDIS_URL inválida")
		}
		viewCache = cache.NewRedisCache(redis.NewClient(opts))
	}

	// 3. Eventos e alertas (opcionais)
	var producer usecase.EventProducer
	var rabbit *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		var err error
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logrus.WithError(err).Fatal("falha ao conectar no RabbitMQ")
		}
		defer rabbit.Conn.Close()
		defer rabbit.Ch.Close()
		producer = queue.NewProducer(rabbit.Ch)
	}

	var alerter usecase.AlertService
	if cfg.SMTPHost != "" && cfg.AlertEmail != "" {
		alerter = mail.NewAlertSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.AlertEmail)
	}

	// 4. UseCases (view-model com invalidação pós-mutação)
	leadUC := usecase.NewLeadUseCase(leadRepo, viewCache, cfg.CacheTTL, producer, alerter)
	messageUC := usecase.NewMessageUseCase(messageRepo, viewCache, cfg.CacheTTL, alerter)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(leadUC, messageUC)
	messageHandler := handlers.NewMessageHandler(messageUC)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/api/leads", leadHandler.HandleList)
	r.Post("/api/leads", leadHandler.HandleCreate)
	r.Put("/api/leads/{id}", leadHandler.HandleUpdate)
	r.Put("/api/leads/{id}/stage", leadHandler.HandleMoveStage)
	r.Post("/api/leads/{id}/stage/advance", leadHandler.HandleAdvanceStage)
	r.Post("/api/leads/{id}/stage/revert", leadHandler.HandleRevertStage)
	r.Delete("/api/leads/{id}", leadHandler.HandleRemove)
	r.Post("/api/leads/{id}/whatsapp-link", leadHandler.HandleWhatsAppLink)
	r.Get("/api/stats", leadHandler.HandleStats)
	r.Get("/api/messages", messageHandler.HandleGetAll)
	r.Patch("/api/messages", messageHandler.HandleSave)
	r.Handle("/metrics", promhttp.Handler())

	// Rotas da API primária de mensagens, servidas direto do Postgres
	// quando há banco configurado. Outra instância (ou esta mesma)
	// pode apontar CRM_API_URL pra cá.
	if db != nil {
		primaryHandler := handlers.NewPrimaryAPIHandler(database.NewMessageStore(db))
		r.Get("/internal/messages", primaryHandler.HandleGet)
		r.Patch("/internal/messages", primaryHandler.HandlePatch)
	}

	healthHandler := handlers.NewHealthHandler(db, rabbitConn(rabbit))
	r.Get("/health", healthHandler.Handle)

	addr := ":" + cfg.Port
	logrus.WithField("addr", addr).Info("funil-crm no ar")
	if err := http.ListenAndServe(addr, r); err != nil {
		logrus.WithError(err).Fatal("servidor caiu")
	}
}

func rabbitConn(r *queue.RabbitMQ) *amqp091.Connection {
	if r == nil {
		return nil
	}
	return r.Conn
}
