package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shortform/internal/api"
	"shortform/internal/config"
	"shortform/internal/deps"
	"shortform/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, dependency, and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			daemonStatus, daemonErr := fetchDaemonStatus(cmd.Context(), cfg)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}
			if daemonErr != nil {
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusInfo, "Not running", colorize))
			} else {
				detail := fmt.Sprintf("Running (pid %d)", daemonStatus.PID)
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, detail, colorize))
				for _, health := range daemonStatus.StageHealth {
					kind := statusOK
					if !health.Ready {
						kind = statusWarn
					}
					fmt.Fprintln(stdout, renderStatusLine(formatStatusLabel(health.Name), kind, health.Detail, colorize))
				}
				if daemonStatus.LastError != "" {
					fmt.Fprintln(stdout, renderStatusLine("Last Error", statusError, daemonStatus.LastError, colorize))
				}
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, status := range deps.CheckBinaries(deps.For(cfg)) {
				fmt.Fprintln(stdout, dependencyStatusLine(status, colorize))
			}
			fmt.Fprintln(stdout, pexelsStatusLine(cfg, colorize))
			fmt.Fprintln(stdout, ntfyStatusLine(cfg, colorize))
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Paths", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, directoryStatusLine("Staging", cfg.Paths.StagingDir, colorize))
			fmt.Fprintln(stdout, directoryStatusLine("Output", cfg.Paths.OutputDir, colorize))
			fmt.Fprintln(stdout, directoryStatusLine("Logs", cfg.Paths.LogDir, colorize))
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Queue Status", colorize) {
				fmt.Fprintln(stdout, line)
			}

			stats, err := queueStatsForStatus(cmd.Context(), ctx, daemonStatus)
			if err != nil {
				return err
			}
			rows := buildQueueStatusRows(stats)
			if len(rows) == 0 {
				fmt.Fprintln(stdout, "Queue is empty")
				return nil
			}
			table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
			fmt.Fprint(stdout, table)
			return nil
		},
	}
}

// fetchDaemonStatus queries the daemon's local HTTP API. Any failure is
// treated as "daemon not running" and the command falls back to direct
// store access.
func fetchDaemonStatus(ctx context.Context, cfg *config.Config) (*api.StatusResponse, error) {
	bind := strings.TrimSpace(cfg.API.Bind)
	if bind == "" {
		bind = "127.0.0.1:7474"
	}
	reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fmt.Sprintf("http://%s/status", bind), nil)
	if err != nil {
		return nil, err
	}
	if token := strings.TrimSpace(cfg.API.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var status api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

func queueStatsForStatus(ctx context.Context, cmdCtx *commandContext, daemonStatus *api.StatusResponse) (map[string]int, error) {
	if daemonStatus != nil {
		return daemonStatus.QueueStats, nil
	}
	var stats map[string]int
	err := cmdCtx.withStore(func(store *queue.Store) error {
		raw, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		stats = make(map[string]int, len(raw))
		for status, count := range raw {
			stats[string(status)] = count
		}
		return nil
	})
	return stats, err
}

func dependencyStatusLine(status deps.Status, colorize bool) string {
	if status.Available {
		return renderStatusLine(status.Name, statusOK, status.Command, colorize)
	}
	kind := statusError
	if status.Optional {
		kind = statusWarn
	}
	detail := status.Detail
	if status.Optional {
		detail += " (optional)"
	}
	return renderStatusLine(status.Name, kind, detail, colorize)
}

func pexelsStatusLine(cfg *config.Config, colorize bool) string {
	if strings.TrimSpace(cfg.Footage.PexelsAPIKey) == "" {
		return renderStatusLine("Pexels", statusWarn, "No API key (procedural clips only)", colorize)
	}
	return renderStatusLine("Pexels", statusOK, "API key configured", colorize)
}

func ntfyStatusLine(cfg *config.Config, colorize bool) string {
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return renderStatusLine("Notifications", statusInfo, "Disabled", colorize)
	}
	return renderStatusLine("Notifications", statusOK, "ntfy topic configured", colorize)
}

func directoryStatusLine(label, path string, colorize bool) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return renderStatusLine(label, statusError, "Not configured", colorize)
	}
	info, err := os.Stat(path)
	if err != nil {
		return renderStatusLine(label, statusError, fmt.Sprintf("%s (inaccessible)", path), colorize)
	}
	if !info.IsDir() {
		return renderStatusLine(label, statusError, fmt.Sprintf("%s is not a directory", path), colorize)
	}
	return renderStatusLine(label, statusOK, path, colorize)
}
