package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/config"
	"github.com/lkd-web/kurs/internal/db"
	"github.com/lkd-web/kurs/internal/markdown"
	"github.com/lkd-web/kurs/internal/repository"
	"github.com/lkd-web/kurs/internal/service"
	"github.com/lkd-web/kurs/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	AuthService        *service.AuthService
	ProfileService     *service.ProfileService
	EmailService       *service.EmailService
	CatalogService     *service.CatalogService
	ApplicationService *service.ApplicationService
	ChoiceService      *service.ChoiceService
	PermitService      *service.PermitService
	AdminService       *service.AdminService
	AuditService       *service.AuditService
	PageService        *service.PageService
}

func (a *App) Close() error {
	return db.Close(a.DB)
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	eventRepository := repository.NewEventRepository(database)
	courseRepository := repository.NewCourseRepository(database)
	applicationRepository := repository.NewApplicationRepository(database)
	choiceRepository := repository.NewChoiceRepository(database)
	permitRepository := repository.NewPermitRepository(database)
	actionLogRepository := repository.NewActionLogRepository(database)
	commentRepository := repository.NewUserCommentRepository(database)

	// Storage
	permitStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	parser := markdown.NewParser()

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	auditService := service.NewAuditService(actionLogRepository)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsDevelopment(),
	)
	profileService := service.NewProfileService(profileRepository)
	catalogService := service.NewCatalogService(eventRepository, courseRepository, applicationRepository, parser)
	applicationService := service.NewApplicationService(
		applicationRepository,
		courseRepository,
		choiceRepository,
		permitRepository,
		permitStorage,
		auditService,
	)
	choiceService := service.NewChoiceService(
		eventRepository,
		courseRepository,
		applicationRepository,
		choiceRepository,
		auditService,
	)
	permitService := service.NewPermitService(
		permitRepository,
		applicationRepository,
		permitStorage,
		auditService,
		cfg.PermitMaxSize,
	)
	adminService := service.NewAdminService(
		eventRepository,
		courseRepository,
		applicationRepository,
		userRepository,
		profileRepository,
		commentRepository,
		auditService,
		emailService,
	)
	pageService := service.NewPageService(cfg.ContentPath, parser)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		AuthService:        authService,
		ProfileService:     profileService,
		EmailService:       emailService,
		CatalogService:     catalogService,
		ApplicationService: applicationService,
		ChoiceService:      choiceService,
		PermitService:      permitService,
		AdminService:       adminService,
		AuditService:       auditService,
		PageService:        pageService,
	}, nil
}
