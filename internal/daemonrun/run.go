// Package daemonrun boots the daemon process: logging, queue store, stage
// registration, the HTTP API, and signal-driven shutdown.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"shortform/internal/api"
	"shortform/internal/assembly"
	"shortform/internal/config"
	"shortform/internal/daemon"
	"shortform/internal/deps"
	"shortform/internal/logging"
	"shortform/internal/logs"
	"shortform/internal/notifications"
	"shortform/internal/queue"
	"shortform/internal/rendering"
	"shortform/internal/segmenting"
	"shortform/internal/staging"
	"shortform/internal/workflow"
)

// staleWorkDirAge bounds how long abandoned work directories survive before
// the startup sweep reclaims them.
const staleWorkDirAge = 72 * time.Hour

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the shortform daemon runtime loop. Blocks until SIGINT/SIGTERM
// or context cancellation.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("shortform-%s.log", runID))
	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logDependencySnapshot(logger, cfg)
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update shortform.log link: %v\n", err)
	}
	pidPath := filepath.Join(cfg.Paths.LogDir, "shortform.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()

	cleanStagingDirs(signalCtx, cfg, store, logger)

	notifier := notifications.NewService(cfg)
	manager := workflow.NewManagerWithNotifier(cfg, store, logger, notifier)
	registerStages(manager, cfg, store, logger)

	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	server := api.NewServer(api.ServerConfig{
		Bind:   cfg.API.Bind,
		Token:  cfg.API.Token,
		Store:  store,
		Status: manager.Status,
		Logger: logger,
		LogDir: cfg.Paths.LogDir,
	})
	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration and queue database access"),
		)
	}

	select {
	case <-signalCtx.Done():
	case err := <-serverErr:
		if err != nil {
			logger.Error("api server failed", logging.Error(err))
			return err
		}
	}
	logger.Info("shortform daemon shutting down")
	return nil
}

func registerStages(mgr *workflow.Manager, cfg *config.Config, store *queue.Store, logger *slog.Logger) {
	mgr.ConfigureStages(workflow.StageSet{
		Segmenter: segmenting.NewSegmenter(cfg, store, logger),
		Assembler: assembly.NewAssembler(cfg, store, logger),
		Renderer:  rendering.NewRenderer(cfg, store, logger),
	})
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := logs.CurrentPath(logDir)
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	statuses := deps.CheckBinaries(deps.For(cfg))
	attrs := []any{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("pexels_key_present", strings.TrimSpace(cfg.Footage.PexelsAPIKey) != ""),
		logging.Bool("transcription_enabled", cfg.Transcription.Enabled),
	}
	for _, status := range statuses {
		key := strings.ToLower(status.Name) + "_available"
		attrs = append(attrs, logging.Bool(key, status.Available))
	}
	logger.Info("dependency snapshot", attrs...)

	for _, status := range deps.MissingRequired(statuses) {
		logger.Warn("required dependency missing",
			logging.String(logging.FieldEventType, "dependency_missing"),
			logging.String("dependency", status.Name),
			logging.String("command", status.Command),
			logging.String("detail", status.Detail),
		)
	}
}

// cleanStagingDirs removes work directories no queue entry references plus
// anything older than staleWorkDirAge. Runs once at startup; active jobs
// keep their directories.
func cleanStagingDirs(ctx context.Context, cfg *config.Config, store *queue.Store, logger *slog.Logger) {
	jobs, err := store.List(ctx)
	if err != nil {
		logger.Warn("staging cleanup skipped", logging.Error(err))
		return
	}
	active := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		if dir := strings.TrimSpace(job.WorkDir); dir != "" {
			active[dir] = struct{}{}
		}
	}
	orphaned := staging.CleanOrphaned(cfg.Paths.StagingDir, active, logger)
	stale := staging.CleanStale(cfg.Paths.StagingDir, staleWorkDirAge, logger)
	if removed := len(orphaned.Removed) + len(stale.Removed); removed > 0 {
		logger.Info("staging cleanup complete",
			logging.String(logging.FieldEventType, "staging_cleanup"),
			logging.Int("removed", removed),
		)
	}
}
