package main

import (
	"fmt"
	"sort"
	"strings"

	"socialfactory/internal/api"
	"socialfactory/internal/ipc"
	"socialfactory/internal/queue"
)

const topicDisplayLimit = 48

func truncateText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

func buildRunListRows(items []ipc.RunItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			truncateText(item.Topic, topicDisplayLimit),
			api.PlatformLabel(item.Platform),
			api.StatusLabel(item.Status),
			item.CreatedAt,
		})
	}
	return rows
}

// buildQueueStatusRows orders counts by pipeline lifecycle, with unknown
// statuses appended alphabetically.
func buildQueueStatusRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(stats))
	rows := make([][]string, 0, len(stats))
	for _, status := range queue.AllStatuses() {
		key := string(status)
		count, ok := stats[key]
		if !ok || count == 0 {
			continue
		}
		seen[key] = true
		rows = append(rows, []string{api.StatusLabel(key), fmt.Sprintf("%d", count)})
	}

	var extras []string
	for key, count := range stats {
		if seen[key] || count == 0 {
			continue
		}
		extras = append(extras, key)
	}
	sort.Strings(extras)
	for _, key := range extras {
		rows = append(rows, []string{api.StatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

func buildStepRows(item ipc.RunItem) [][]string {
	rows := make([][]string, 0, len(item.Steps))
	for _, name := range queue.StepOrder() {
		step, ok := item.Steps[string(name)]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			api.StepLabel(string(name)),
			api.StatusLabel(step.Status),
			step.Error,
		})
	}
	return rows
}

func runDetailLines(item ipc.RunItem) []string {
	lines := []string{
		fmt.Sprintf("Run %d (%s)", item.ID, item.RunKey),
		fmt.Sprintf("Topic:            %s", item.Topic),
		fmt.Sprintf("Platform:         %s", api.PlatformLabel(item.Platform)),
		fmt.Sprintf("Status:           %s", api.StatusLabel(item.Status)),
		fmt.Sprintf("Approval gate:    %s", yesNo(item.RequireApproval)),
		fmt.Sprintf("Video requested:  %s", yesNo(item.GenerateVideo)),
	}
	if item.Tone != "" {
		lines = append(lines, fmt.Sprintf("Tone:             %s", item.Tone))
	}
	if item.Progress.Step != "" {
		progress := item.Progress.Step
		if item.Progress.Message != "" {
			progress += " - " + item.Progress.Message
		}
		lines = append(lines, fmt.Sprintf("Progress:         %s", progress))
	}
	if item.ErrorMessage != "" {
		lines = append(lines, fmt.Sprintf("Error:            %s", item.ErrorMessage))
	}
	if item.ReviewNote != "" {
		lines = append(lines, fmt.Sprintf("Review note:      %s", item.ReviewNote))
	}
	if item.CreatedAt != "" {
		lines = append(lines, fmt.Sprintf("Created:          %s", item.CreatedAt))
	}
	return lines
}

func runResultLines(item ipc.RunItem) []string {
	var lines []string
	results := item.Results
	if results.Script != "" {
		lines = append(lines, "Script:", indentBlock(results.Script))
	}
	if results.Caption != "" {
		lines = append(lines, "Caption:", indentBlock(results.Caption))
	}
	if len(results.Hashtags) > 0 {
		lines = append(lines, fmt.Sprintf("Hashtags:  %s", strings.Join(results.Hashtags, " ")))
	}
	if results.VideoURL != "" {
		lines = append(lines, fmt.Sprintf("Video:     %s", results.VideoURL))
	}
	if results.PublishID != "" {
		lines = append(lines, fmt.Sprintf("Published: %s", results.PublishID))
	}
	return lines
}

func indentBlock(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	indented := make([]string, 0, strings.Count(trimmed, "\n")+1)
	for _, line := range strings.Split(trimmed, "\n") {
		indented = append(indented, "  "+line)
	}
	return strings.Join(indented, "\n")
}
