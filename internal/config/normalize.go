package config

import "strings"

// normalize expands paths and canonicalizes string fields so validation and
// downstream consumers see a consistent shape regardless of how the file was
// written.
func (c *Config) normalize() error {
	logDir, err := expandPath(c.Paths.LogDir)
	if err != nil {
		return err
	}
	c.Paths.LogDir = logDir

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)

	c.Video.BaseURL = strings.TrimRight(strings.TrimSpace(c.Video.BaseURL), "/")
	c.Video.APIKey = strings.TrimSpace(c.Video.APIKey)

	c.Slack.WebhookURL = strings.TrimSpace(c.Slack.WebhookURL)
	c.Slack.Channel = strings.TrimSpace(c.Slack.Channel)
	if c.Slack.Channel != "" && !strings.HasPrefix(c.Slack.Channel, "#") && !strings.HasPrefix(c.Slack.Channel, "@") {
		c.Slack.Channel = "#" + c.Slack.Channel
	}

	c.WordPress.SiteURL = strings.TrimRight(strings.TrimSpace(c.WordPress.SiteURL), "/")
	c.WordPress.Username = strings.TrimSpace(c.WordPress.Username)
	c.WordPress.AppPassword = strings.TrimSpace(c.WordPress.AppPassword)

	c.LinkedIn.AccessToken = strings.TrimSpace(c.LinkedIn.AccessToken)
	c.LinkedIn.PersonURN = strings.TrimSpace(c.LinkedIn.PersonURN)
	c.LinkedIn.OrganizationURN = strings.TrimSpace(c.LinkedIn.OrganizationURN)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	return nil
}

// SlackConfigured reports whether approval requests and notifications can be
// delivered.
func (c *Config) SlackConfigured() bool {
	return c.Slack.WebhookURL != ""
}

// WordPressConfigured reports whether the WordPress publish target is usable.
func (c *Config) WordPressConfigured() bool {
	return c.WordPress.SiteURL != "" && c.WordPress.Username != "" && c.WordPress.AppPassword != ""
}

// LinkedInConfigured reports whether the LinkedIn publish target is usable.
func (c *Config) LinkedInConfigured() bool {
	return c.LinkedIn.AccessToken != "" && (c.LinkedIn.PersonURN != "" || c.LinkedIn.OrganizationURN != "")
}

// VideoConfigured reports whether the video generation backend is usable.
func (c *Config) VideoConfigured() bool {
	return c.Video.BaseURL != ""
}
