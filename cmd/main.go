package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Linnet/config"
	"github.com/lshigami/Linnet/database"
	"github.com/lshigami/Linnet/internal/auth"
	adminctrl "github.com/lshigami/Linnet/internal/controller/admin"
	candidatectrl "github.com/lshigami/Linnet/internal/controller/candidate"
	"github.com/lshigami/Linnet/internal/event"
	"github.com/lshigami/Linnet/internal/logger"
	"github.com/lshigami/Linnet/internal/model"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/lshigami/Linnet/internal/scheduler"
	"github.com/lshigami/Linnet/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Adaptive Language Assessment API
// @version 1.0
// @description Multi-tenant adaptive English assessment engine: timed exam sessions, difficulty-adaptive question selection, CEFR/IELTS scoring and item calibration.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			func(cfg *config.Config) *auth.Service {
				return auth.NewService(cfg.JWTSecret)
			},
			func(cfg *config.Config) (event.Publisher, error) {
				return event.NewRabbitPublisher(cfg.RabbitURI)
			},
		),

		// Repositories Layer
		fx.Provide(
			repository.NewCandidateRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
			repository.NewCompanyRepository,
			repository.NewProctoringEventRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewSelectorService,
			service.NewScoringService,
			service.NewCreditService,
			service.NewProctoringService,
			service.NewAdminService,
			service.NewExportService,
			service.NewGeminiScorerService,
			func(cfg *config.Config, questionRepo repository.QuestionRepository) service.CalibrationService {
				return service.NewCalibrationService(questionRepo, cfg.Calibration.MinResponses)
			},
			func(
				cfg *config.Config,
				candidateRepo repository.CandidateRepository,
				questionRepo repository.QuestionRepository,
				answerRepo repository.AnswerRepository,
				selector service.SelectorService,
				scoring service.ScoringService,
				credits service.CreditService,
				publisher event.Publisher,
				aiScorer service.AIScorerService,
			) service.SessionService {
				policy := service.SessionPolicy{ExtendDeadlineOnPause: cfg.Session.ExtendDeadlineOnPause}
				return service.NewSessionService(candidateRepo, questionRepo, answerRepo, selector, scoring, credits, publisher, aiScorer, policy)
			},
		),

		// Background calibration
		fx.Provide(
			func(cfg *config.Config, calibration service.CalibrationService) *scheduler.Scheduler {
				return scheduler.New(calibration, cfg.Calibration.IntervalHours)
			},
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminController,
			candidatectrl.NewExamController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartScheduler),
		fx.Invoke(ClosePublisherOnStop),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService *auth.Service,
	adminCtrl *adminctrl.AdminController,
	examCtrl *candidatectrl.ExamController,
) {
	// Admin routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/candidates", adminCtrl.CreateCandidate)
		adminAPIGroup.POST("/candidates/:candidate_id/pause", adminCtrl.PauseExam)
		adminAPIGroup.POST("/candidates/:candidate_id/resume", adminCtrl.ResumeExam)
		adminAPIGroup.POST("/candidates/:candidate_id/complete", adminCtrl.CompleteExam)
		adminAPIGroup.GET("/candidates/:candidate_id/result", adminCtrl.GetCandidateResult)
		adminAPIGroup.POST("/questions", adminCtrl.CreateQuestion)
		adminAPIGroup.GET("/companies/:company_id/results", adminCtrl.ListCompletedCandidates)
		adminAPIGroup.GET("/companies/:company_id/results/export", adminCtrl.ExportResults)
		adminAPIGroup.POST("/calibration/run", adminCtrl.RunCalibration)
	}

	// Candidate exam routes (prefixed with /api/v1/exam)
	examGroup := router.Group("/api/v1/exam")
	{
		examGroup.POST("/login", examCtrl.Login)

		guarded := examGroup.Group("")
		guarded.Use(auth.CandidateMiddleware(authService))
		guarded.POST("/start", examCtrl.StartExam)
		guarded.GET("/session", examCtrl.GetSession)
		guarded.POST("/answers", examCtrl.SubmitAnswer)
		guarded.POST("/proctoring-events", examCtrl.RecordProctoringEvent)
		guarded.GET("/result", examCtrl.GetResult)
	}

	// Public certificate verification
	router.GET("/api/v1/certificates/:ref", adminCtrl.VerifyCertificate)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Assessment API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartScheduler ties the calibration scheduler to the fx lifecycle.
func StartScheduler(lc fx.Lifecycle, sched *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			return nil
		},
	})
}

// ClosePublisherOnStop releases the broker connection during shutdown.
func ClosePublisherOnStop(lc fx.Lifecycle, publisher event.Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Company{},
		&model.Candidate{},
		&model.Question{},
		&model.Answer{},
		&model.ProctoringEvent{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
