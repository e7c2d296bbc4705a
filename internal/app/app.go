package app

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/releasegrid/internal/config"
	"github.com/specialistvlad/releasegrid/internal/ledger"
	"github.com/specialistvlad/releasegrid/internal/orchestrator"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader

	executor  orchestrator.Executor
	publisher orchestrator.Publisher
	notifier  orchestrator.Notifier
	newRunID  func() string

	mu         sync.Mutex
	ledger     *ledger.Ledger
	httpServer *http.Server
}

// Option overrides a collaborator the App would otherwise build from Config.
type Option func(*App)

// WithExecutor replaces the cargo executor.
func WithExecutor(e orchestrator.Executor) Option { return func(a *App) { a.executor = e } }

// WithPublisher replaces the publishers built from Config.
func WithPublisher(p orchestrator.Publisher) Option { return func(a *App) { a.publisher = p } }

// WithNotifier replaces the socket.io notifier.
func WithNotifier(n orchestrator.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithRunID fixes how run identifiers are generated.
func WithRunID(f func() string) Option { return func(a *App) { a.newRunID = f } }

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		newRunID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ledger returns the ledger of the current or last run, or nil before Run.
func (a *App) Ledger() *ledger.Ledger {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger
}

func (a *App) setLedger(l *ledger.Ledger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ledger = l
}

// projectPath resolves p against the project directory.
func (a *App) projectPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.config.ProjectDir, p)
}
