package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shortform/internal/queue"
	"shortform/internal/textutil"
)

func buildQueueStatusRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

func buildQueueListRows(jobs []*queue.Job) [][]string {
	if len(jobs) == 0 {
		return nil
	}
	sorted := make([]*queue.Job, len(jobs))
	copy(sorted, jobs)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	rows := make([][]string, 0, len(sorted))
	for _, job := range sorted {
		title := textutil.DisplayTitle(job.Title)
		if title == "" {
			title = "Untitled"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", job.ID),
			title,
			formatStatusLabel(string(job.Status)),
			formatJobProgress(job),
			formatDisplayTime(job.CreatedAt),
		})
	}
	return rows
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	parts := strings.Split(status, "_")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatJobProgress(job *queue.Job) string {
	if !job.IsProcessing() {
		return "-"
	}
	stage := strings.TrimSpace(job.ProgressStage)
	if stage == "" {
		return fmt.Sprintf("%.0f%%", job.ProgressPercent)
	}
	return fmt.Sprintf("%s %.0f%%", stage, job.ProgressPercent)
}

func formatDisplayTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02 15:04")
}
