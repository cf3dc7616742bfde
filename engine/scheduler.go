package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"

	"github.com/Redwindmh/png2jpgConverter/converter"
)

// InitializeSchedules starts all the cron jobs (currently just one)
func (serverHandler *ServerHandler) InitializeSchedules() {
	if serverHandler.ServerConfig.WatchPath == "" {
		Logger.Info("Watch folder not configured, scheduler disabled")
		return
	}

	// Run the watch-folder job immediately at startup in a goroutine
	Logger.Info("Running watch-folder job at startup")
	go serverHandler.watchJobFunc()

	c := cron.New()
	var watchJob cron.Job
	watchJob = cron.FuncJob(serverHandler.watchJobFunc)
	watchJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(watchJob) //ensure we don't kick off another if old one is still running
	c.AddJob(fmt.Sprintf("@every %dm", serverHandler.ServerConfig.WatchInterval), watchJob)
	Logger.Info("Adding watch-folder job scheduler", "interval_minutes", serverHandler.ServerConfig.WatchInterval)
	c.Start()
}

// watchJobFunc scans the watch folder for PNG files and converts them
// into the output directory at the configured default size. Sources
// that converted successfully are removed when WatchDelete is set, so
// they are not picked up again on the next scan.
func (serverHandler *ServerHandler) watchJobFunc() {
	watchPath := serverHandler.ServerConfig.WatchPath
	matches, err := filepath.Glob(filepath.Join(watchPath, "*.png"))
	if err != nil {
		Logger.Error("Failed scanning watch folder", "path", watchPath, "error", err)
		return
	}
	if len(matches) == 0 {
		Logger.Debug("Watch folder empty", "path", watchPath)
		return
	}

	requests := make([]converter.Request, 0, len(matches))
	for _, match := range matches {
		requests = append(requests, converter.Request{
			SourcePath:     match,
			Size:           serverHandler.ServerConfig.DefaultSize,
			DestinationDir: serverHandler.ServerConfig.OutputDir,
		})
	}

	jobID := serverHandler.Jobs.CreateJob(fmt.Sprintf("Watch folder: converting %d file(s)", len(requests)))
	Logger.Info("Watch folder scan found files", "path", watchPath, "count", len(requests), "jobID", jobID.String())

	results := serverHandler.runBatchJob(jobID, requests)

	if serverHandler.ServerConfig.WatchDelete {
		for _, result := range results {
			if !result.Success() {
				continue
			}
			if err := os.Remove(result.SourcePath); err != nil {
				Logger.Error("Failed to remove converted source file", "path", result.SourcePath, "error", err)
			}
		}
	}
}
