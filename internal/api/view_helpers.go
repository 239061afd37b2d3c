package api

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// platformLabels covers platform names whose brand casing is not plain title
// case.
var platformLabels = map[string]string{
	"linkedin":  "LinkedIn",
	"wordpress": "WordPress",
	"youtube":   "YouTube",
	"tiktok":    "TikTok",
}

// PlatformLabel renders a platform identifier for display.
func PlatformLabel(platform string) string {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		return "Unknown"
	}
	if label, ok := platformLabels[platform]; ok {
		return label
	}
	return titleCaser.String(platform)
}

// StatusLabel renders a run status for display, e.g.
// "completed_with_errors" becomes "Completed With Errors".
func StatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

// StepLabel renders a pipeline step name for display.
func StepLabel(step string) string {
	return StatusLabel(step)
}
