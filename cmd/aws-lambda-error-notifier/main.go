package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/client"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/scanner"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/cmd"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: aws-lambda-error-notifier --regions us-east-1,eu-west-1 [--topic-arn arn:aws:sns:...] [--dry-run] [--extract log.message]")
	fmt.Fprintln(os.Stderr, "Environment: REGIONS and SNS_TOPIC_ARN can replace the flags; AWS credentials from default sources.")
	os.Exit(2)
}

func main() {
	// Parse flags/env and validate relationships
	opts := cmd.CollectOptions()
	if msg, code := opts.Validate(); code != 0 {
		if strings.TrimSpace(opts.RegionsCSV) == "" {
			usage()
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(code)
	}
	regions := cmd.ParseRegionsCSV(opts.RegionsCSV)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	profile := cmd.ResolveProfile(opts.Profile)

	ctx := context.Background()
	factory := func(ctx context.Context, region string) (scanner.LogsReader, error) {
		return client.NewCloudWatchClient(ctx, region, profile)
	}
	sc := scanner.New(factory, logger, scanner.Options{
		SelfLogGroup: opts.SelfLogGroup,
		ExtractPath:  opts.Extract,
		EventLimit:   int32(opts.EventLimit),
		Workers:      opts.Workers,
	})

	matches := sc.Scan(ctx, regions)
	if len(matches) == 0 {
		fmt.Println(scanner.Summary(0))
		return
	}

	report := scanner.Render(matches, "")
	if opts.DryRun {
		fmt.Print(report)
		fmt.Println(scanner.Summary(len(matches)))
		return
	}

	notifier, err := client.NewNotifier(ctx, opts.TopicARN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create SNS notifier: %v\n", err)
		os.Exit(1)
	}
	if err := notifier.Publish(ctx, report); err != nil {
		fmt.Fprintf(os.Stderr, "publish error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(scanner.Summary(len(matches)))
}
