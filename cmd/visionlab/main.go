package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"visionlab/internal/config"
	"visionlab/internal/controllers"
	"visionlab/internal/logger"
	"visionlab/internal/models"
	"visionlab/internal/opencv/memory"
	"visionlab/internal/services"
	"visionlab/internal/shutdown"
	"visionlab/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "CV Image Processing Tool"
	AppID      = "com.visionlab.imagetool"
	AppVersion = "1.0.0"

	memoryRefreshInterval = 2 * time.Second
)

// Application holds the wired MVC components and their lifecycle.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	cfg     *config.Config

	controller *controllers.MainController
	view       *views.MainView

	imageRepo     *models.ImageRepository
	memoryManager *memory.Manager
	shutdown      *shutdown.Manager
}

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	application := NewApplication(cfg)
	application.Run()
}

func newLogger(cfg config.LoggingConfig) logger.Logger {
	level := logger.ParseLevel(cfg.Level)
	if cfg.Console {
		return logger.NewConsoleLogger(level)
	}
	return logger.NewZerolog(os.Stderr, level)
}

// NewApplication creates and wires the application
func NewApplication(cfg *config.Config) *Application {
	appLogger := newLogger(cfg.Logging)

	fyneApp := app.NewWithID(AppID)
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	appLogger.Info("Application", "starting application", map[string]interface{}{
		"version":     AppVersion,
		"window_size": fmt.Sprintf("%.0fx%.0f", cfg.Window.Width, cfg.Window.Height),
		"go_version":  runtime.Version(),
		"log_level":   cfg.Logging.Level,
	})

	imageRepo := models.NewImageRepository()
	memManager := memory.NewManager(appLogger)

	imageService := services.NewImageService(memManager, imageRepo, appLogger)
	processingService := services.NewProcessingService(imageRepo, appLogger)

	controller := controllers.NewMainController(imageService, processingService, cfg, appLogger)
	view := views.NewMainView(window, controller.Catalog(), cfg.Display.Preview.Width, cfg.Display.Preview.Height)

	view.SetLoadImageHandler(controller.LoadImage)
	view.SetSaveImageHandler(controller.SaveImage)
	view.SetStatsHandler(controller.ShowStats)
	view.SetOperationHandler(controller.Run)
	controller.SetView(view)

	shutdownManager := shutdown.NewManager(appLogger, shutdown.DefaultStepTimeout)
	shutdownManager.Register("memory manager", memManager)
	shutdownManager.Register("image repository", imageRepo)

	application := &Application{
		fyneApp:       fyneApp,
		window:        window,
		logger:        appLogger,
		cfg:           cfg,
		controller:    controller,
		view:          view,
		imageRepo:     imageRepo,
		memoryManager: memManager,
		shutdown:      shutdownManager,
	}
	application.setupWindowEvents()

	return application
}

// Run shows the window and blocks until the application quits.
func (a *Application) Run() {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	go a.monitorMemory()

	a.view.Show()
	a.fyneApp.Run()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "application terminated", nil)
}

func (a *Application) setupWindowEvents() {
	a.view.SetQuitHandler(a.fyneApp.Quit)

	a.window.SetOnClosed(func() {
		a.logger.Info("Application", "window closed", nil)
		a.shutdown.Shutdown()
	})
}

func (a *Application) monitorMemory() {
	ticker := time.NewTicker(memoryRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := a.memoryManager.GetStats()
			a.view.SetMemoryInfo(stats.ActiveMats, stats.InUse())
		case <-a.shutdown.Done():
			return
		}
	}
}
