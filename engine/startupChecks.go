package engine

import (
	"fmt"
	"os"

	"github.com/Redwindmh/png2jpgConverter/config"
)

// StartupChecks performs all the checks to make sure everything works
func (serverHandler *ServerHandler) StartupChecks() error {
	if err := outputDirectoryChecks(serverHandler.ServerConfig); err != nil {
		return err
	}
	return watchDirectoryChecks(serverHandler.ServerConfig)
}

// outputDirectoryChecks ensures the output directory exists
func outputDirectoryChecks(serverConfig config.ServerConfig) error {
	outputInfo, err := os.Stat(serverConfig.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			Logger.Info("Creating output directory", "path", serverConfig.OutputDir)
			err = os.MkdirAll(serverConfig.OutputDir, 0755)
			if err != nil {
				Logger.Error("Failed to create output directory", "path", serverConfig.OutputDir, "error", err)
				return err
			}
			return nil
		}
		Logger.Error("Error checking output directory", "path", serverConfig.OutputDir, "error", err)
		return err
	}

	if !outputInfo.IsDir() {
		Logger.Error("Output path exists but is not a directory", "path", serverConfig.OutputDir)
		return fmt.Errorf("output path is not a directory: %s", serverConfig.OutputDir)
	}

	Logger.Info("Output directory exists", "path", serverConfig.OutputDir)
	return nil
}

// watchDirectoryChecks ensures the watch directory exists, when one is
// configured at all
func watchDirectoryChecks(serverConfig config.ServerConfig) error {
	if serverConfig.WatchPath == "" {
		return nil
	}

	watchInfo, err := os.Stat(serverConfig.WatchPath)
	if err != nil {
		if os.IsNotExist(err) {
			Logger.Info("Creating watch directory", "path", serverConfig.WatchPath)
			err = os.MkdirAll(serverConfig.WatchPath, 0755)
			if err != nil {
				Logger.Error("Failed to create watch directory", "path", serverConfig.WatchPath, "error", err)
				return err
			}
			return nil
		}
		Logger.Error("Error checking watch directory", "path", serverConfig.WatchPath, "error", err)
		return err
	}

	if !watchInfo.IsDir() {
		Logger.Error("Watch path exists but is not a directory", "path", serverConfig.WatchPath)
		return fmt.Errorf("watch path is not a directory: %s", serverConfig.WatchPath)
	}

	Logger.Info("Watch directory exists", "path", serverConfig.WatchPath)
	return nil
}
