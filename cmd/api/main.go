package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vrjob-ai/jobagent/internal/auth"
	"github.com/vrjob-ai/jobagent/internal/boards"
	"github.com/vrjob-ai/jobagent/internal/config"
	"github.com/vrjob-ai/jobagent/internal/database"
	"github.com/vrjob-ai/jobagent/internal/handlers"
	"github.com/vrjob-ai/jobagent/internal/resume"
	"github.com/vrjob-ai/jobagent/internal/services"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func main() {
	// 1. Configuration (loads .env first)
	cfg := config.Load()

	// 2. Database Connection
	db := database.Connect(cfg.DatabaseDSN)

	// 3. Job Boards
	aggregator := boards.NewAggregator(cfg.SourceTimeout,
		&boards.LinkedInSource{},
		&boards.WellfoundSource{},
		boards.NewRemoteOKSource(cfg.SourceTimeout),
		&boards.DummySource{},
	)

	// 4. Core Services
	resumeStorage := resume.NewStorage(cfg.DataDir)
	userService := services.NewUserService(db, resumeStorage)
	tailorService := services.NewTailorService(cfg)
	jobService := services.NewJobService(db, aggregator)
	pipelineService := services.NewPipelineService(db, jobService, tailorService)
	statsService := services.NewStatsService(db)
	matcherService := services.NewMatcherService(db)

	// 5. Gmail Integration (optional: watcher stays off without credentials)
	var mailProvider services.MailProvider
	if httpClient := auth.GetGmailClient(cfg.GmailCredentialsFile, cfg.GmailTokenFile); httpClient != nil {
		gmailService, err := gmail.NewService(context.Background(), option.WithHTTPClient(httpClient))
		if err != nil {
			log.Printf("⚠️ Failed to create Gmail Service: %v", err)
		} else {
			log.Println("✅ Gmail Service connected successfully.")
			mailProvider = services.NewGmailProvider(gmailService)
		}
	}

	// 6. Email Watcher
	emailService := services.NewEmailService(db, matcherService, mailProvider, cfg.EmailPollInterval, cfg.GhostAfterDays)
	emailService.StartWatcher()

	// 7. Handlers
	userHandler := handlers.NewUserHandler(userService, pipelineService, statsService)
	emailHandler := handlers.NewEmailHandler(emailService)

	// 8. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 9. Routes
	r.GET("/health", handlers.HealthCheck)

	users := r.Group("/users")
	{
		users.POST("/intake", userHandler.Intake)
		users.GET("/:id", userHandler.GetUser)
		users.GET("/:id/stats", userHandler.GetStats)
		users.GET("/:id/applications", userHandler.ListApplications)
		users.POST("/:id/search-jobs", userHandler.SearchJobs)
	}
	r.POST("/emails/sync", emailHandler.Sync)

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
