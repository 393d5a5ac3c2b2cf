package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/reposhell/cmd/cli/repos"
	"github.com/temirov/reposhell/internal/dispatch"
	"github.com/temirov/reposhell/internal/execshell"
	"github.com/temirov/reposhell/internal/interactive"
	"github.com/temirov/reposhell/internal/repos/dependencies"
	"github.com/temirov/reposhell/internal/repos/shared"
	"github.com/temirov/reposhell/internal/styles"
	"github.com/temirov/reposhell/internal/ui"
	"github.com/temirov/reposhell/internal/utils"
	flagutils "github.com/temirov/reposhell/internal/utils/flags"
	pathutils "github.com/temirov/reposhell/internal/utils/path"
)

const (
	applicationNameConstant                 = "reposhell"
	applicationShortDescriptionConstant     = "Restricted login shell for hosted git repositories"
	applicationLongDescriptionConstant      = "reposhell serves git transfers for one operator and lets them create, delete, move, and list their own bare repositories."
	commandFlagNameConstant                 = "command"
	commandFlagShorthandConstant            = "c"
	commandFlagUsageConstant                = "Run a single command line and exit."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	shellConfigurationKeyConstant           = "shell"
	environmentPrefixConstant               = "REPOSHELL"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "Unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "Unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "Unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant   = "Unable to determine the working directory: %w"
	sessionStartedMessageConstant           = "session started"
	logFieldModeConstant                    = "mode"
	logFieldCommandLineConstant             = "command_line"
	logFieldVisibleRootConstant             = "visible_root"
	logFieldRepositoryHomeConstant          = "repository_home"
	environmentResolvedMessageConstant      = "workspace resolved"
	loggerNotInitializedMessageConstant     = "logger not initialized"
)

// ApplicationConfiguration describes the persisted configuration for the shell.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Shell  repos.ShellConfiguration       `mapstructure:"shell"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// WorkingDirectoryProvider resolves the visible root.
type WorkingDirectoryProvider func() (string, error)

// ApplicationOption customizes an Application.
type ApplicationOption func(*Application)

// WithStandardStreams replaces the process standard streams.
func WithStandardStreams(input *os.File, output io.Writer, errorOutput io.Writer) ApplicationOption {
	return func(application *Application) {
		application.input = input
		application.output = output
		application.errorOutput = errorOutput
	}
}

// WithWorkingDirectoryProvider replaces the visible root lookup.
func WithWorkingDirectoryProvider(provider WorkingDirectoryProvider) ApplicationOption {
	return func(application *Application) {
		if provider != nil {
			application.workingDirectoryProvider = provider
		}
	}
}

// WithRepositoryHomeResolver replaces the repo-home lookup.
func WithRepositoryHomeResolver(resolver *pathutils.RepositoryHomeResolver) ApplicationOption {
	return func(application *Application) {
		if resolver != nil {
			application.repositoryHomeResolver = resolver
		}
	}
}

// WithGitExecutor replaces the process-backed git executor.
func WithGitExecutor(gitExecutor shared.GitExecutor) ApplicationOption {
	return func(application *Application) {
		application.gitExecutor = gitExecutor
	}
}

// WithConfigurationSearchPaths replaces the directories searched for config.yaml.
func WithConfigurationSearchPaths(searchPaths []string) ApplicationOption {
	return func(application *Application) {
		application.configurationLoader = newConfigurationLoader(searchPaths)
	}
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand              *cobra.Command
	configurationLoader      *utils.ConfigurationLoader
	loggerFactory            *utils.LoggerFactory
	logger                   *zap.Logger
	configuration            ApplicationConfiguration
	configurationMetadata    utils.LoadedConfiguration
	configurationFilePath    string
	logLevelFlagValue        string
	logFormatFlagValue       string
	commandLineFlagValue     string
	input                    *os.File
	output                   io.Writer
	errorOutput              io.Writer
	workingDirectoryProvider WorkingDirectoryProvider
	repositoryHomeResolver   *pathutils.RepositoryHomeResolver
	gitExecutor              shared.GitExecutor
}

// NewApplication assembles a fully wired shell application instance.
func NewApplication(options ...ApplicationOption) *Application {
	application := &Application{
		configurationLoader:      newConfigurationLoader(utils.ConfigurationSearchPaths(applicationNameConstant)),
		loggerFactory:            utils.NewLoggerFactory(),
		logger:                   zap.NewNop(),
		input:                    os.Stdin,
		output:                   os.Stdout,
		errorOutput:              os.Stderr,
		workingDirectoryProvider: os.Getwd,
		repositoryHomeResolver:   pathutils.NewRepositoryHomeResolver(),
	}
	for _, option := range options {
		option(application)
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetIn(application.input)
	cobraCommand.SetOut(application.output)
	cobraCommand.SetErr(application.errorOutput)
	cobraCommand.Flags().StringVarP(&application.commandLineFlagValue, commandFlagNameConstant, commandFlagShorthandConstant, "", commandFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(
		&application.logLevelFlagValue,
		logLevelFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(
			string(utils.LogLevelWarn),
			[]string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)},
			logLevelFlagUsageConstant,
		),
	)
	cobraCommand.PersistentFlags().StringVar(
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), []string{string(utils.LogFormatConsole), string(utils.LogFormatStructured)}, logFormatFlagUsageConstant),
	)

	application.rootCommand = cobraCommand

	return application
}

// SetArguments replaces the arguments parsed by the root command.
func (application *Application) SetArguments(arguments []string) {
	if arguments == nil {
		arguments = []string{}
	}
	application.rootCommand.SetArgs(arguments)
}

// Configuration returns the configuration resolved during the last execution.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// Execute runs the root command and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under executionContext and ensures logger flushing.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes it with the process arguments.
func Execute(executionContext context.Context) error {
	return NewApplication().ExecuteContext(executionContext)
}

func newConfigurationLoader(searchPaths []string) *utils.ConfigurationLoader {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		searchPaths,
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	return configurationLoader
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues(shellConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	application.configuration.Shell = application.configuration.Shell.Sanitize()
	if validationError := application.configuration.Shell.Validate(); validationError != nil {
		return validationError
	}

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logLevel, levelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if levelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, levelError)
	}
	logFormat, formatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if formatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, formatError)
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(logLevel, logFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(logLevel)),
		zap.String(configurationLogFormatFieldConstant, string(logFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(
		application.gitExecutor,
		application.logger,
		execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(application.logger)),
		execshell.WithGitExecutable(application.configuration.Shell.GitExecutable),
	)
	if executorError != nil {
		return executorError
	}

	theme := styles.NewTheme(application.errorOutput, application.configuration.Shell.PlainOutput)
	commandFactory := &repos.VerbCommandFactory{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		EnvironmentProvider: func() (repos.ShellEnvironment, error) {
			return application.resolveEnvironment(gitExecutor)
		},
	}

	dispatcher, dispatcherError := dispatch.NewDispatcher(dispatch.Dependencies{
		GitExecutor: gitExecutor,
		Commands:    commandFactory,
		Theme:       theme,
		Logger:      application.logger,
		Input:       application.input,
		Output:      application.output,
		Errors:      application.errorOutput,
	})
	if dispatcherError != nil {
		return dispatcherError
	}

	if command.Flags().Changed(commandFlagNameConstant) {
		application.logger.Debug(
			sessionStartedMessageConstant,
			zap.String(logFieldModeConstant, dispatch.ModeForced.String()),
			zap.String(logFieldCommandLineConstant, application.commandLineFlagValue),
		)
		return dispatcher.Dispatch(command.Context(), dispatch.ModeForced, application.commandLineFlagValue)
	}

	application.logger.Debug(sessionStartedMessageConstant, zap.String(logFieldModeConstant, dispatch.ModeInteractive.String()))
	shell, shellError := interactive.NewShell(interactive.Dependencies{
		Dispatcher: dispatcher,
		Theme:      theme,
		Logger:     application.logger,
		Output:     application.output,
		Errors:     application.errorOutput,
	})
	if shellError != nil {
		return shellError
	}
	return shell.Run(command.Context(), application.input)
}

func (application *Application) resolveEnvironment(gitExecutor shared.GitExecutor) (repos.ShellEnvironment, error) {
	workingDirectory, workingDirectoryError := application.workingDirectoryProvider()
	if workingDirectoryError != nil {
		return repos.ShellEnvironment{}, fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}

	repositoryHome, homeError := application.repositoryHomeResolver.Resolve(application.configuration.Shell.RepositoryBase)
	if homeError != nil {
		return repos.ShellEnvironment{}, homeError
	}

	workspace := shared.NewWorkspace(workingDirectory, repositoryHome, application.configuration.Shell.StagingDirectory)
	application.logger.Debug(
		environmentResolvedMessageConstant,
		zap.String(logFieldVisibleRootConstant, workspace.VisibleRoot),
		zap.String(logFieldRepositoryHomeConstant, workspace.RepositoryHome),
	)

	return repos.ShellEnvironment{
		FileSystem:  dependencies.ResolveFileSystem(nil),
		GitExecutor: gitExecutor,
		Workspace:   workspace,
	}, nil
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
