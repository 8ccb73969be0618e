package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskmate configuration file
# Values can be overridden by environment variables or CLI flags

# Task file (relative to the working directory; supports ~ expansion)
task_file = "tasks.csv"

# Retrain the priority classifier after every add or remove.
# When false the classifier is trained once at startup.
retrain_on_change = false

# Command run after every add or remove as: <cmd> <action> <description> <priority>
# hook_command = "/path/to/hook.sh"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
