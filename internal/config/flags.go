package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args and applies the
// flags that were explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskmate", flag.ContinueOnError)
	}

	var (
		taskFile      = cfg.TaskFile
		retrain       = cfg.RetrainOnChange
		hook          = cfg.HookCommand
		logLevel      = cfg.LogLevel
		logFormat     = cfg.LogFormat
		logTimestamps = cfg.LogTimestamps
		logCaller     = cfg.LogCaller
	)

	fs.StringVar(&taskFile, "tasks", taskFile, "Path to task file")
	fs.BoolVar(&retrain, "retrain", retrain, "Retrain the priority classifier after every change")
	fs.StringVar(&hook, "hook", hook, "Hook command to run after every change")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"tasks":          "task_file",
		"retrain":        "retrain_on_change",
		"hook":           "hook_command",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagToSource[f.Name]
		if !ok {
			return
		}
		switch f.Name {
		case "tasks":
			cfg.TaskFile = taskFile
		case "retrain":
			cfg.RetrainOnChange = retrain
		case "hook":
			cfg.HookCommand = hook
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
	})

	return nil
}
