package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/client"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/config"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/handler"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/scanner"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/util"
)

var app *handler.App

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.SelfLogGroup == "" {
		// The execution environment knows its own log group; excluding it
		// prevents the scanner from alerting on its own output.
		cfg.SelfLogGroup = lambdacontext.LogGroupName
	}
	if cfg.ExtractPath != "" {
		if err := util.ValidateExtractPath(cfg.ExtractPath); err != nil {
			logger.Error("configuration error", slog.Any("error", err))
			os.Exit(1)
		}
	}

	notifier, err := client.NewNotifier(context.Background(), cfg.SNSTopicARN)
	if err != nil {
		logger.Error("failed to create SNS notifier", slog.Any("error", err))
		os.Exit(1)
	}

	factory := func(ctx context.Context, region string) (scanner.LogsReader, error) {
		return client.NewCloudWatchClient(ctx, region, "")
	}
	app = &handler.App{
		Logger: logger,
		Config: cfg,
		Scanner: scanner.New(factory, logger, scanner.Options{
			SelfLogGroup: cfg.SelfLogGroup,
			ExtractPath:  cfg.ExtractPath,
			EventLimit:   cfg.EventLimit,
			Workers:      cfg.ScanWorkers,
		}),
		Notifier: notifier,
	}
	logger.Info("error notifier initialized",
		slog.Int("regions", len(cfg.Regions)),
		slog.String("self_log_group", cfg.SelfLogGroup))
}

func main() {
	lambda.Start(app.HandleEvent)
}
