package config

const (
	defaultLogDir                  = "~/.local/share/socialfactory/logs"
	defaultLLMBaseURL              = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                = "google/gemini-2.5-flash"
	defaultLLMTimeoutSeconds       = 60
	defaultVideoFrameCount         = 16
	defaultVideoWidth              = 256
	defaultVideoHeight             = 256
	defaultVideoRequestTimeout     = 30
	defaultVideoGenerationTimeout  = 180
	defaultVideoPollInterval       = 2
	defaultSlackTimeoutSeconds     = 10
	defaultSlackChannel            = "#content-review"
	defaultWordPressTimeoutSeconds = 30
	defaultLinkedInTimeoutSeconds  = 30
	defaultScriptVariants          = 3
	defaultTargetDurationSeconds   = 30
	defaultWorkerCount             = 2
	defaultQueuePollInterval       = 2
	defaultErrorRetryInterval      = 5
	defaultHeartbeatInterval       = 15
	defaultHeartbeatTimeout        = 120
	defaultApprovalTimeoutSeconds  = 86400
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Video: Video{
			FrameCount:               defaultVideoFrameCount,
			Width:                    defaultVideoWidth,
			Height:                   defaultVideoHeight,
			RequestTimeoutSeconds:    defaultVideoRequestTimeout,
			GenerationTimeoutSeconds: defaultVideoGenerationTimeout,
			PollIntervalSeconds:      defaultVideoPollInterval,
		},
		Slack: Slack{
			Channel:        defaultSlackChannel,
			TimeoutSeconds: defaultSlackTimeoutSeconds,
		},
		WordPress: WordPress{
			TimeoutSeconds: defaultWordPressTimeoutSeconds,
		},
		LinkedIn: LinkedIn{
			TimeoutSeconds: defaultLinkedInTimeoutSeconds,
		},
		Content: Content{
			ScriptVariants:        defaultScriptVariants,
			TargetDurationSeconds: defaultTargetDurationSeconds,
		},
		Notifications: Notifications{
			Queue:     true,
			Publish:   true,
			Approvals: true,
			Errors:    true,
		},
		Workflow: Workflow{
			WorkerCount:            defaultWorkerCount,
			QueuePollInterval:      defaultQueuePollInterval,
			ErrorRetryInterval:     defaultErrorRetryInterval,
			HeartbeatInterval:      defaultHeartbeatInterval,
			HeartbeatTimeout:       defaultHeartbeatTimeout,
			ApprovalTimeoutSeconds: defaultApprovalTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
