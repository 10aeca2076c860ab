package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/config"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/handlers"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	recordRepo := repositories.NewInterviewRecordRepository(db)
	sessionStore := repositories.NewMemorySessionStore()
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	parserService := services.NewResumeParserService()
	chunker := services.NewResumeChunker()
	behavioralService := services.NewBehavioralService()
	promptBuilder := services.NewPromptBuilder()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Speech (optional: endpoints fail gracefully without API keys)
	speechService, err := services.NewSpeechService(
		cfg.Speech.Provider,
		cfg.Speech.OpenAIAPIKey,
		cfg.Speech.ElevenLabsAPIKey,
		cfg.Speech.Voice,
		cfg.Speech.CacheSize,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize speech service: %v", err)
	}

	// Interview pipeline
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	planner := services.NewQuestionPlannerService(geminiService, promptBuilder)
	evaluator := services.NewAnswerEvaluator(geminiService, promptBuilder, cfg.Interview.EvaluateTimeout)
	reportService := services.NewReportService(geminiService, behavioralService)

	analyzerService := services.NewAnalyzerService(
		analysisRepo,
		resumeRepo,
		geminiService,
		qdrantService,
		cfg.Worker.RetryMaxAttempts,
	)

	// Initialize worker
	worker := services.NewWorker(
		analysisRepo,
		analyzerService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	worker.Start(context.Background())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	resumeHandler := handlers.NewResumeHandler(
		resumeRepo,
		storageService,
		parserService,
		chunker,
		geminiService,
		qdrantService,
		cfg.Storage.MaxFileSize,
	)
	analysisHandler := handlers.NewAnalysisHandler(analysisRepo, resumeRepo, worker)
	interviewHandler := handlers.NewInterviewHandler(
		sessionStore,
		resumeRepo,
		recordRepo,
		planner,
		evaluator,
		geminiService,
		qdrantService,
		behavioralService,
		reportService,
		speechService,
		storageService,
		handlers.InterviewLimits{
			DefaultQuestions: cfg.Interview.DefaultQuestions,
			MinQuestions:     cfg.Interview.MinQuestions,
			MaxQuestions:     cfg.Interview.MaxQuestions,
		},
	)
	speechHandler := handlers.NewSpeechHandler(speechService, storageService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Interview Prep API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Auth
	api.Post("/auth/register", authHandler.HandleRegister)
	api.Post("/auth/login", authHandler.HandleLogin)

	// Everything else requires a valid token
	protected := api.Group("", authHandler.RequireAuth)
	protected.Get("/auth/me", authHandler.HandleMe)

	// Resumes
	protected.Post("/resumes", resumeHandler.HandleUpload)
	protected.Get("/resumes", resumeHandler.HandleList)
	protected.Get("/resumes/:id", resumeHandler.HandleGet)
	protected.Get("/resumes/:id/chunks", resumeHandler.HandleChunks)
	protected.Delete("/resumes/:id", resumeHandler.HandleDelete)

	// Resume analysis
	protected.Post("/analyze", analysisHandler.HandleAnalyze)
	protected.Get("/analyze/:id", analysisHandler.HandleGetResult)

	// Interviews
	protected.Post("/interviews", interviewHandler.HandleStart)
	protected.Get("/interviews", interviewHandler.HandleListSessions)
	protected.Get("/interviews/:id", interviewHandler.HandleGetSession)
	protected.Post("/interviews/respond", interviewHandler.HandleRespond)
	protected.Post("/interviews/:id/respond-audio", interviewHandler.HandleRespondAudio)
	protected.Get("/interviews/:id/question", interviewHandler.HandleCurrentQuestion)
	protected.Post("/interviews/:id/end", interviewHandler.HandleEnd)
	protected.Get("/interviews/:id/report", interviewHandler.HandleReport)
	protected.Get("/interviews/:id/behavioral", interviewHandler.HandleBehavioral)

	// Speech
	protected.Get("/speech/voices", speechHandler.HandleVoices)
	protected.Post("/speech/synthesize", speechHandler.HandleSynthesize)
	protected.Post("/speech/transcribe", speechHandler.HandleTranscribe)
	api.Get("/speech/audio/:filename", speechHandler.HandleGetAudio)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interview Prep API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/auth/register",
				"POST /api/v1/auth/login",
				"POST /api/v1/resumes",
				"POST /api/v1/analyze",
				"POST /api/v1/interviews",
				"POST /api/v1/interviews/respond",
				"GET /api/v1/interviews/:id/report",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
