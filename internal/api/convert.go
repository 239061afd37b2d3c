package api

import (
	"time"

	"socialfactory/internal/queue"
)

// FromRunItem converts a persistence run into its transport representation.
// Ledger or results decoding problems degrade to empty sections rather than
// failing the conversion; the raw row is still useful to an operator.
func FromRunItem(item *queue.Item) RunItem {
	if item == nil {
		return RunItem{}
	}

	dto := RunItem{
		ID:              item.ID,
		RunKey:          item.RunKey,
		Topic:           item.Topic,
		Platform:        item.Platform,
		Tone:            item.Tone,
		RequireApproval: item.RequireApproval,
		GenerateVideo:   item.GenerateVideo,
		Status:          string(item.Status),
		Progress: RunProgress{
			Step:    item.ProgressStep,
			Message: item.ProgressMessage,
		},
		ErrorMessage: item.ErrorMessage,
		ReviewNote:   item.ReviewNote,
	}
	dto.ApprovalRequestedAt = formatTime(item.ApprovalRequestedAt)
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.Format(dateTimeFormat)
	}

	if steps, err := item.Steps(); err == nil {
		dto.Steps = make(map[string]RunStep, len(steps))
		for name, state := range steps {
			dto.Steps[string(name)] = RunStep{
				Status:      string(state.Status),
				Error:       state.Error,
				StartedAt:   formatTime(state.StartedAt),
				CompletedAt: formatTime(state.CompletedAt),
			}
		}
	}
	if results, err := item.Results(); err == nil {
		dto.Results = RunResults{
			Script:         results.Script,
			ScriptVariants: results.ScriptVariants,
			Caption:        results.Caption,
			Hashtags:       results.Hashtags,
			VideoURL:       results.VideoURL,
			PublishID:      results.PublishID,
		}
	}
	return dto
}

// FromRunItems converts a slice of runs, skipping nil entries.
func FromRunItems(items []*queue.Item) []RunItem {
	out := make([]RunItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, FromRunItem(item))
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateTimeFormat)
}
