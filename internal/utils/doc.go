// Package utils holds the shell's ambient plumbing: ConfigurationLoader merges
// embedded defaults, config.yaml and REPOSHELL_* variables through Viper, and
// LoggerFactory builds the zap logger that writes diagnostics to standard error.
package utils
