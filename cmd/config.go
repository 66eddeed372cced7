package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "gramgen"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName      = "output"
	formatsFlagName     = "format"
	verboseFlagName     = "verbose"
	runParallelFlagName = "parallel"
	validFlagName       = "valid"
	invalidFlagName     = "invalid"
	extremeFlagName     = "extreme"
	maxDepthFlagName    = "max-depth"
	seedFlagName        = "seed"
	identifierFlagName  = "identifier"
	diffFlagName        = "diff"

	outputConfigKey      = "output"
	formatsConfigKey     = "formats"
	runParallelConfigKey = "run.parallel"
	validConfigKey       = "generate.valid"
	invalidConfigKey     = "generate.invalid"
	extremeConfigKey     = "generate.extreme"
	maxDepthConfigKey    = "generate.max_depth"
	seedConfigKey        = "generate.seed"
	identifierConfigKey  = "generate.identifier"
	diffConfigKey        = "generate.diff"

	defaultOutputDir   = ".gramgen"
	defaultRunParallel = 1
	defaultValid       = 10
	defaultInvalid     = 10
	defaultExtreme     = true
	defaultMaxDepth    = 50
	defaultSeed        = 0
	defaultIdentifier  = "id"
	defaultDiff        = false

	envPrefix = "GRAMGEN"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".gramgen.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var defaultFormats = []string{"json"}

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputConfigKey, defaultOutputDir)
	viper.SetDefault(formatsConfigKey, defaultFormats)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(validConfigKey, defaultValid)
	viper.SetDefault(invalidConfigKey, defaultInvalid)
	viper.SetDefault(extremeConfigKey, defaultExtreme)
	viper.SetDefault(maxDepthConfigKey, defaultMaxDepth)
	viper.SetDefault(seedConfigKey, defaultSeed)
	viper.SetDefault(identifierConfigKey, defaultIdentifier)
	viper.SetDefault(diffConfigKey, defaultDiff)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger installs a rotating file logger as the slog default.
//
// By default it logs at log.level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
