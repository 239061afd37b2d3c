package logging

import "strings"

// FormatSubject builds the platform/run/step subject string used in console output.
func FormatSubject(platform, runID, step string) string {
	platform = strings.TrimSpace(platform)
	runID = strings.TrimSpace(runID)
	step = strings.TrimSpace(step)
	parts := make([]string, 0, 3)
	if platform != "" {
		var formatted string
		if len(platform) > 1 {
			formatted = strings.ToUpper(platform[:1]) + strings.ToLower(platform[1:])
		} else {
			formatted = strings.ToUpper(platform)
		}
		parts = append(parts, formatted)
	}
	switch {
	case runID != "" && step != "":
		parts = append(parts, "Run #"+runID+" ("+step+")")
	case runID != "":
		parts = append(parts, "Run #"+runID)
	case step != "":
		parts = append(parts, step)
	}
	return strings.Join(parts, " · ")
}
