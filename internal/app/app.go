package app

import (
	"herdview/config"
	"herdview/internal/database"
	"herdview/internal/events"
	"herdview/internal/farmapi"
	"herdview/internal/handlers/middleware"
	"herdview/internal/logger"
	"herdview/internal/models"
	"herdview/internal/repositories"
	"herdview/internal/services"
	"herdview/internal/session"
	"herdview/internal/websockets"

	cowController "herdview/internal/controllers/cows"
	diseaseController "herdview/internal/controllers/diseases"
	healthCheckController "herdview/internal/controllers/healthchecks"
	milkController "herdview/internal/controllers/milk"
	reproductionController "herdview/internal/controllers/reproduction"
	salesController "herdview/internal/controllers/sales"
	symptomController "herdview/internal/controllers/symptoms"
	userController "herdview/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config
	FarmAPI    *farmapi.Client
	Sessions   *session.Store

	// Services
	TransactionService *services.TransactionService
	GenerationService  *services.GenerationService
	Invalidation       *services.CacheInvalidationService

	// Repositories
	SnapshotRepo   repositories.SnapshotRepository
	CollectionRepo repositories.CollectionRepository

	// Controllers
	UserController         *userController.UserController
	CowController          *cowController.CowController
	HealthCheckController  *healthCheckController.HealthCheckController
	SymptomController      *symptomController.SymptomController
	DiseaseController      *diseaseController.DiseaseController
	ReproductionController *reproductionController.ReproductionController
	SalesController        *salesController.SalesController
	MilkController         *milkController.MilkController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if err := db.SQL.AutoMigrate(&models.CollectionSnapshot{}); err != nil {
		return &App{}, log.Err("failed to migrate snapshot table", err)
	}

	eventBus := events.New(db.Cache.Events, config)
	farmAPI := farmapi.New(config)
	sessions := session.NewStore(db, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	generationService := services.NewGenerationService()
	invalidation := services.NewCacheInvalidationService(db, eventBus)

	// Initialize repositories
	snapshotRepo := repositories.NewSnapshot(db, transactionService)
	collectionRepo := repositories.NewCollection(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(sessions)
	userCtrl := userController.New(farmAPI, sessions, snapshotRepo, generationService, invalidation)
	cowCtrl := cowController.New(farmAPI, collectionRepo, snapshotRepo, generationService, invalidation)
	healthCheckCtrl := healthCheckController.New(farmAPI, snapshotRepo, generationService, invalidation)
	symptomCtrl := symptomController.New(farmAPI, snapshotRepo, generationService, invalidation)
	diseaseCtrl := diseaseController.New(farmAPI, snapshotRepo, generationService, invalidation)
	reproductionCtrl := reproductionController.New(farmAPI, snapshotRepo, generationService, invalidation)
	salesCtrl := salesController.New(farmAPI, snapshotRepo, generationService, invalidation)
	milkCtrl := milkController.New(farmAPI, snapshotRepo, generationService, invalidation)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		FarmAPI:            farmAPI,
		Sessions:           sessions,
		TransactionService: transactionService,
		GenerationService:  generationService,
		Invalidation:       invalidation,
		SnapshotRepo:       snapshotRepo,
		CollectionRepo:     collectionRepo,

		UserController:         userCtrl,
		CowController:          cowCtrl,
		HealthCheckController:  healthCheckCtrl,
		SymptomController:      symptomCtrl,
		DiseaseController:      diseaseCtrl,
		ReproductionController: reproductionCtrl,
		SalesController:        salesCtrl,
		MilkController:         milkCtrl,

		Websocket: websocket,
		EventBus:  eventBus,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.FarmAPI,
		a.Sessions,
		a.TransactionService,
		a.GenerationService,
		a.Invalidation,
		a.SnapshotRepo,
		a.CollectionRepo,
		a.UserController,
		a.CowController,
		a.HealthCheckController,
		a.SymptomController,
		a.DiseaseController,
		a.ReproductionController,
		a.SalesController,
		a.MilkController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
