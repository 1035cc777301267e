package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/stutterlab/internal/config"
	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/logging"
	"github.com/vovakirdan/stutterlab/internal/storage"
	"github.com/vovakirdan/stutterlab/internal/testbed"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.stutterlab/host_key.
	HostKeyPath string

	// DBPath is the path to the run history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Testbed is the base configuration; sessions pick a preset on top.
	Testbed config.TestbedConfig

	// TickRate is the frame rate each session runs at.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      "~/.stutterlab/runs.db",
		IdleTimeout: 30 * time.Minute,
		Testbed:     config.DefaultTestbedConfig(),
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server serving a live testbed per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = logging.New(os.Stderr, log.InfoLevel, "stutterlab-ssh")
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".stutterlab", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(s.config.Testbed, cfg, s.store, s.logger.With("user", sshSession.User()))
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// SessionModel manages one session: preset menu -> testbed -> menu.
type SessionModel struct {
	base     config.TestbedConfig
	config   core.RuntimeConfig
	store    *storage.Store
	logger   *log.Logger
	menu     MenuModel
	testbed  *Model
	driver   *testbed.Driver
	preset   config.Preset
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(base config.TestbedConfig, cfg core.RuntimeConfig, store *storage.Store, logger *log.Logger) SessionModel {
	return SessionModel{
		base:   base,
		config: cfg,
		store:  store,
		logger: logging.OrDiscard(logger),
		menu:   NewMenuModel(cfg.ScreenW),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.testbed != nil {
		return m.updateTestbed(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.menu.ClearSelection()

	tb := m.base
	if err := config.ApplyPreset(&tb, *selected); err != nil {
		m.logger.Error("cannot apply preset", "preset", *selected, "error", err)
		return m, nil
	}

	driver, err := testbed.Build(tb, m.config.Seed, m.logger)
	if err != nil {
		m.logger.Error("cannot build testbed", "error", err)
		return m, nil
	}

	model := NewModel(driver, m.config, string(*selected)).Embedded()
	m.testbed = &model
	m.driver = driver
	m.preset = *selected
	return m, model.Init()
}

// updateTestbed forwards messages to the live testbed.
func (m SessionModel) updateTestbed(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.testbed.Update(msg)
	if tm, ok := newModel.(Model); ok {
		m.testbed = &tm
	}

	if m.testbed.quitting {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	if m.testbed.IsGoingBack() {
		m.saveRun()
		m.testbed = nil
		m.driver = nil
		return m, nil
	}

	return m, cmd
}

// saveRun stores the session's run summary, best effort.
func (m SessionModel) saveRun() {
	if m.store == nil || m.driver == nil || m.driver.Recorder().Frames() == 0 {
		return
	}
	if _, err := m.store.SaveRun(m.driver.Report(string(m.preset))); err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.testbed != nil {
		return m.testbed.View()
	}
	return m.menu.View()
}
