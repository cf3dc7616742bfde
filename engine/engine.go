package engine

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/Redwindmh/png2jpgConverter/batch"
	"github.com/Redwindmh/png2jpgConverter/config"
	"github.com/Redwindmh/png2jpgConverter/converter"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// ServerHandler carries everything the HTTP routes need
type ServerHandler struct {
	Echo         *echo.Echo
	ServerConfig config.ServerConfig
	Jobs         *JobStore
}

// progressStep is the running status line, same wording the progress
// popup of the desktop app used.
func progressStep(p batch.Progress) string {
	return fmt.Sprintf("Converting %d/%d: %s", p.Processed, p.Total, p.CurrentFile)
}

// ConvertUpload accepts a multipart upload of PNG files plus a "size"
// form value, kicks the batch off in the background and returns the job
// ID for progress polling.
// POST /api/convert
func (serverHandler *ServerHandler) ConvertUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid multipart form",
		})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Please select at least one PNG file",
		})
	}

	size := serverHandler.ServerConfig.DefaultSize
	if sizeValue := c.FormValue("size"); sizeValue != "" {
		size, err = converter.ParseTargetSize(sizeValue)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	uploadDir, err := os.MkdirTemp("", "png2jpg-upload-")
	if err != nil {
		Logger.Error("Failed to create upload directory", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to store uploaded files",
		})
	}

	requests := make([]converter.Request, 0, len(files))
	for _, fileHeader := range files {
		storedPath, err := saveUpload(fileHeader, uploadDir)
		if err != nil {
			Logger.Error("Failed to store uploaded file", "fileName", fileHeader.Filename, "error", err)
			os.RemoveAll(uploadDir)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": fmt.Sprintf("Failed to store %s", fileHeader.Filename),
			})
		}
		requests = append(requests, converter.Request{
			SourcePath:     storedPath,
			Size:           size,
			DestinationDir: serverHandler.ServerConfig.OutputDir,
		})
	}

	jobID := serverHandler.Jobs.CreateJob(fmt.Sprintf("Converting %d file(s)", len(requests)))
	Logger.Info("Starting conversion job", "jobID", jobID.String(), "files", len(requests), "size", size.String())

	go func() {
		defer os.RemoveAll(uploadDir)
		serverHandler.runBatchJob(jobID, requests)
	}()

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"jobID": jobID.String(),
		"files": len(requests),
		"size":  size.String(),
	})
}

// runBatchJob drives one batch to completion, mirroring progress into
// the job store. Per-file failures never abort the batch; the summary
// message reports how many made it.
func (serverHandler *ServerHandler) runBatchJob(jobID ulid.ULID, requests []converter.Request) []converter.Result {
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic during conversion job", "jobID", jobID.String(), "panic", r)
			serverHandler.Jobs.Fail(jobID, fmt.Sprintf("Internal error: %v", r))
		}
	}()

	results := batch.Run(requests, func(p batch.Progress) {
		serverHandler.Jobs.UpdateProgress(jobID, p)
		Logger.Debug("Conversion progress", "jobID", jobID.String(), "processed", p.Processed, "total", p.Total, "file", p.CurrentFile)
	})

	for _, result := range results {
		if !result.Success() {
			Logger.Warn("File conversion failed", "jobID", jobID.String(), "file", filepath.Base(result.SourcePath), "error", result.Err)
		}
	}

	succeeded, failed := batch.Summary(results)
	message := fmt.Sprintf("Conversion complete! %d/%d files saved to %s",
		succeeded, len(results), serverHandler.ServerConfig.OutputDir)
	serverHandler.Jobs.Complete(jobID, results, message)
	Logger.Info("Conversion job finished", "jobID", jobID.String(), "succeeded", succeeded, "failed", failed)
	return results
}

// saveUpload copies one uploaded file into the temp upload directory,
// keeping only the base name so uploads cannot escape it.
func saveUpload(fileHeader *multipart.FileHeader, uploadDir string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	storedPath := filepath.Join(uploadDir, filepath.Base(fileHeader.Filename))
	dst, err := os.Create(storedPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return storedPath, nil
}
