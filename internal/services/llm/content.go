package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// scriptSystemPrompt instructs the model to return short-form video scripts
// as a JSON object with a "variants" array.
const scriptSystemPrompt = `You are a short-form video copywriter. Produce spoken-word scripts that open with a strong hook, deliver one concrete idea, and end with a call to action. Respond with JSON only, in the shape {"variants": ["script one", "script two"]}. Do not include stage directions or markdown.`

// captionSystemPrompt instructs the model to return a social caption plus
// hashtags as a JSON object.
const captionSystemPrompt = `You are a social media editor. Write a caption that complements the provided script without repeating it verbatim, then suggest hashtags. Respond with JSON only, in the shape {"caption": "...", "hashtags": ["#tag1", "#tag2"]}.`

// trendSystemPrompt instructs the model to summarize audience interest as a
// JSON object with trending themes and a framing angle.
const trendSystemPrompt = `You are a social media trend analyst. Summarize what currently resonates with audiences about the given topic on the given platform. Respond with JSON only, in the shape {"themes": ["theme one", "theme two"], "angle": "one sentence framing"}.`

// TrendReport carries audience insights that steer script generation. A zero
// value means no insights are available.
type TrendReport struct {
	Themes []string
	Angle  string
}

// AnalyzeTrends asks the model which themes and framing resonate for a topic.
func (c *Client) AnalyzeTrends(ctx context.Context, topic, platform string) (TrendReport, error) {
	var empty TrendReport
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return empty, errors.New("llm trends: topic required")
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Analyze current audience interest in: %s\n", topic)
	if platform = strings.TrimSpace(platform); platform != "" {
		fmt.Fprintf(&prompt, "Focus on what performs well on %s.\n", platform)
	}

	content, err := c.CompleteJSON(ctx, trendSystemPrompt, prompt.String())
	if err != nil {
		return empty, err
	}

	var parsed struct {
		Themes []string `json:"themes"`
		Angle  string   `json:"angle"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return empty, fmt.Errorf("llm trends: parse payload: %w", err)
	}

	report := TrendReport{Angle: strings.TrimSpace(parsed.Angle)}
	for _, theme := range parsed.Themes {
		if trimmed := strings.TrimSpace(theme); trimmed != "" {
			report.Themes = append(report.Themes, trimmed)
		}
	}
	return report, nil
}

// ScriptRequest describes one script generation call.
type ScriptRequest struct {
	Topic                 string
	Platform              string
	Tone                  string
	Variants              int
	TargetDurationSeconds int
	Trends                TrendReport
}

// GenerateScripts asks the model for script variants and returns them in the
// order produced. At least one non-empty variant is required.
func (c *Client) GenerateScripts(ctx context.Context, req ScriptRequest) ([]string, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, errors.New("llm scripts: topic required")
	}
	variants := req.Variants
	if variants < 1 {
		variants = 1
	}
	duration := req.TargetDurationSeconds
	if duration <= 0 {
		duration = 30
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Write %d distinct script variants about: %s\n", variants, topic)
	fmt.Fprintf(&prompt, "Each script should run roughly %d seconds when spoken aloud.\n", duration)
	if platform := strings.TrimSpace(req.Platform); platform != "" {
		fmt.Fprintf(&prompt, "The content is destined for %s.\n", platform)
	}
	if tone := strings.TrimSpace(req.Tone); tone != "" {
		fmt.Fprintf(&prompt, "Use a %s tone.\n", tone)
	}
	if len(req.Trends.Themes) > 0 {
		fmt.Fprintf(&prompt, "Lean on these trending themes: %s.\n", strings.Join(req.Trends.Themes, ", "))
	}
	if angle := strings.TrimSpace(req.Trends.Angle); angle != "" {
		fmt.Fprintf(&prompt, "Frame the content around: %s\n", angle)
	}

	content, err := c.CompleteJSON(ctx, scriptSystemPrompt, prompt.String())
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Variants []string `json:"variants"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return nil, fmt.Errorf("llm scripts: parse payload: %w", err)
	}

	scripts := make([]string, 0, len(parsed.Variants))
	for _, variant := range parsed.Variants {
		if trimmed := strings.TrimSpace(variant); trimmed != "" {
			scripts = append(scripts, trimmed)
		}
	}
	if len(scripts) == 0 {
		return nil, errors.New("llm scripts: no usable variants in response")
	}
	return scripts, nil
}

// CaptionResult carries a generated caption and its hashtags.
type CaptionResult struct {
	Caption  string
	Hashtags []string
}

// GenerateCaption asks the model for a caption and hashtags matching a script.
func (c *Client) GenerateCaption(ctx context.Context, script, platform, tone string) (CaptionResult, error) {
	var empty CaptionResult
	script = strings.TrimSpace(script)
	if script == "" {
		return empty, errors.New("llm caption: script required")
	}

	var prompt strings.Builder
	prompt.WriteString("Write a caption and hashtags for this script:\n\n")
	prompt.WriteString(script)
	prompt.WriteString("\n")
	if platform = strings.TrimSpace(platform); platform != "" {
		fmt.Fprintf(&prompt, "\nThe caption will be posted on %s.", platform)
	}
	if tone = strings.TrimSpace(tone); tone != "" {
		fmt.Fprintf(&prompt, "\nUse a %s tone.", tone)
	}

	content, err := c.CompleteJSON(ctx, captionSystemPrompt, prompt.String())
	if err != nil {
		return empty, err
	}

	var parsed struct {
		Caption  string   `json:"caption"`
		Hashtags []string `json:"hashtags"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return empty, fmt.Errorf("llm caption: parse payload: %w", err)
	}

	result := CaptionResult{Caption: strings.TrimSpace(parsed.Caption)}
	if result.Caption == "" {
		return empty, errors.New("llm caption: empty caption in response")
	}
	for _, tag := range parsed.Hashtags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		result.Hashtags = append(result.Hashtags, tag)
	}
	return result, nil
}
