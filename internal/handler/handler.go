package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/config"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/model"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/scanner"

	"github.com/google/uuid"
)

// Response is the invocation result. statusCode is 200 on successful
// completion regardless of match count; a failed publish yields 500.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Scanner runs one pass across the configured regions.
type Scanner interface {
	Scan(ctx context.Context, regions []string) []model.Match
}

// Publisher delivers the rendered report.
type Publisher interface {
	Publish(ctx context.Context, report string) error
}

// App ties configuration, the scanner and the notifier into one
// invocation handler.
type App struct {
	Logger   *slog.Logger
	Config   *config.Config
	Scanner  Scanner
	Notifier Publisher
}

// HandleEvent runs a single scan-and-notify pass. The event payload is
// unused; it exists to satisfy the scheduled-invocation signature.
func (a *App) HandleEvent(ctx context.Context, _ json.RawMessage) (Response, error) {
	runID := uuid.New().String()
	logger := a.Logger.With(slog.String("run_id", runID))

	logger.Info("scan starting", slog.Int("regions", len(a.Config.Regions)))
	matches := a.Scanner.Scan(ctx, a.Config.Regions)
	if len(matches) == 0 {
		logger.Info("scan complete, nothing to report")
		return Response{StatusCode: http.StatusOK, Body: scanner.Summary(0)}, nil
	}

	report := scanner.Render(matches, runID)
	if err := a.Notifier.Publish(ctx, report); err != nil {
		logger.Error("report publish failed", slog.Any("error", err))
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       fmt.Sprintf("found %d errors/exceptions but failed to publish report: %v", len(matches), err),
		}, nil
	}

	logger.Info("scan complete", slog.Int("matches", len(matches)))
	return Response{StatusCode: http.StatusOK, Body: scanner.Summary(len(matches))}, nil
}
