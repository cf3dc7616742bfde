package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Redwindmh/png2jpgConverter/converter"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// ServerConfig contains all of the server settings
type ServerConfig struct {
	ListenAddrIP   string
	ListenAddrPort string
	OutputDir      string
	DefaultSize    converter.TargetSize
	WatchPath      string // folder scanned for new PNGs, empty disables watching
	WatchInterval  int    // minutes between watch-folder scans
	WatchDelete    bool   // delete watched sources after a successful conversion
	MaxUploadMB    int
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// SetupServer loads configuration and returns ServerConfig and Logger
func SetupServer() (ServerConfig, *slog.Logger) {
	serverConfigLive := ServerConfig{}

	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")

	logger := setupLogging()
	Logger = logger

	// Server configuration
	serverConfigLive.ListenAddrPort = getEnv("SERVER_PORT", "8080")
	serverConfigLive.ListenAddrIP = getEnv("SERVER_ADDR", "")

	// Output configuration
	outputDir := filepath.ToSlash(getEnv("OUTPUT_DIR", defaultPicturesDir()))
	outputDirAbs, err := filepath.Abs(outputDir)
	if err != nil {
		logger.Error("Failed creating absolute path for output directory", "error", err)
		outputDirAbs = outputDir
	}
	serverConfigLive.OutputDir = outputDirAbs

	defaultSize, err := converter.ParseTargetSize(getEnv("DEFAULT_SIZE", "original"))
	if err != nil {
		logger.Warn("Invalid DEFAULT_SIZE, falling back to original", "error", err)
		defaultSize = converter.SizeOriginal
	}
	serverConfigLive.DefaultSize = defaultSize

	// Watch-folder configuration
	watchDir := filepath.ToSlash(getEnv("WATCH_PATH", ""))
	if watchDir != "" {
		watchDirAbs, err := filepath.Abs(watchDir)
		if err != nil {
			logger.Error("Failed creating absolute path for watch directory", "error", err)
			watchDirAbs = watchDir
		}
		serverConfigLive.WatchPath = watchDirAbs
	}
	serverConfigLive.WatchInterval = getEnvInt("WATCH_INTERVAL", 10)
	serverConfigLive.WatchDelete = getEnvBool("WATCH_DELETE", false)

	serverConfigLive.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", 100)

	fmt.Println("\n========================================")
	fmt.Println("        PNG to JPG Converter")
	fmt.Println("========================================")
	fmt.Printf("Server will start on: %s:%s\n", serverConfigLive.ListenAddrIP, serverConfigLive.ListenAddrPort)
	if serverConfigLive.ListenAddrIP == "" {
		fmt.Println("(Listening on all network interfaces)")
	}
	fmt.Printf("Output directory: %s\n", serverConfigLive.OutputDir)
	if serverConfigLive.WatchPath != "" {
		fmt.Printf("Watching %s every %d minute(s)\n", serverConfigLive.WatchPath, serverConfigLive.WatchInterval)
	}
	fmt.Printf("Detailed logs: %s\n", getEnv("LOG_FILE", "png2jpg.log"))

	return serverConfigLive, logger
}

// defaultPicturesDir returns the platform-standard Pictures directory,
// falling back to a relative folder if the home cannot be resolved.
func defaultPicturesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Pictures"
	}
	return filepath.Join(home, "Pictures")
}

// setupLogging configures the application logger
func setupLogging() *slog.Logger {
	logLevel := getEnv("LOG_LEVEL", "debug")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelDebug
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	logOutput := getEnv("LOG_OUTPUT", "file")
	var logWriter io.Writer

	if logOutput == "stdout" {
		logWriter = os.Stdout
	} else {
		logPath, err := filepath.Abs(filepath.ToSlash(getEnv("LOG_FILE", "png2jpg.log")))
		if err != nil {
			fmt.Printf("Error creating log file path: %v\n", err)
			logWriter = os.Stdout
		} else {
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Printf("Failed to open log file: %v\n", err)
				logWriter = os.Stdout
			} else {
				logWriter = logFile
			}
		}
	}

	handler := slog.NewTextHandler(logWriter, handlerOptions)
	return slog.New(handler)
}
