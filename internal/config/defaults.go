package config

const (
	defaultLibraryDir         = "~/.local/share/cutout/library"
	defaultScratchDir         = "~/.local/share/cutout/scratch"
	defaultProcessedDir       = "~/.local/share/cutout/processed"
	defaultExportDir          = "~/cutouts"
	defaultLogDir             = "~/.local/share/cutout/logs"
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
	defaultVisionTimeout      = 60
	defaultNotifyTimeout      = 10
	defaultIntakePollInterval = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:   defaultLibraryDir,
			ScratchDir:   defaultScratchDir,
			ProcessedDir: defaultProcessedDir,
			ExportDir:    defaultExportDir,
			LogDir:       defaultLogDir,
		},
		Vision: Vision{
			TimeoutSeconds: defaultVisionTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Captions:       true,
			Processed:      true,
			Errors:         true,
		},
		Daemon: Daemon{
			IntakePollInterval: defaultIntakePollInterval,
			AutoCaption:        false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
