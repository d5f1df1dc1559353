package scanner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/model"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/smithy-go"
)

// errorKeywords are matched case-insensitively against each event's text.
var errorKeywords = []string{"error", "exception"}

// LogsReader is the per-region log surface the scanner consumes.
type LogsReader interface {
	ListLambdaLogGroups(ctx context.Context, selfLogGroup string) ([]string, error)
	LatestStream(ctx context.Context, group string) (string, bool, error)
	LatestEvents(ctx context.Context, group, stream string, limit int32) ([]types.OutputLogEvent, error)
}

// ClientFactory builds a LogsReader bound to one region.
type ClientFactory func(ctx context.Context, region string) (LogsReader, error)

// Options tunes a Scanner. Zero values fall back to sane defaults.
type Options struct {
	SelfLogGroup string
	ExtractPath  string
	EventLimit   int32
	Workers      int
}

// Scanner samples the most recent log stream of every Lambda log group in
// the configured regions and flags events containing error keywords.
type Scanner struct {
	newClient    ClientFactory
	logger       *slog.Logger
	selfLogGroup string
	extractPath  string
	eventLimit   int32
	workers      int
}

// New creates a Scanner.
func New(newClient ClientFactory, logger *slog.Logger, opts Options) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.EventLimit
	if limit <= 0 {
		limit = 50
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		newClient:    newClient,
		logger:       logger,
		selfLogGroup: opts.SelfLogGroup,
		extractPath:  opts.ExtractPath,
		eventLimit:   limit,
		workers:      workers,
	}
}

// Scan fans out across regions and returns every match, ordered by the
// region configuration order and, within a region, by provider enumeration
// order. Region-level failures are logged and skipped so one broken region
// never suppresses findings from the others.
func (s *Scanner) Scan(ctx context.Context, regions []string) []model.Match {
	if len(regions) == 0 {
		return nil
	}
	workers := s.workers
	if workers > len(regions) {
		workers = len(regions)
	}

	regionChan := make(chan int, len(regions))
	for i := range regions {
		regionChan <- i
	}
	close(regionChan)

	// Each worker writes only its own region slots; ordering is restored
	// by index, so parallelism never reorders the report.
	results := make([][]model.Match, len(regions))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range regionChan {
				region := regions[idx]
				matches, err := s.scanRegion(ctx, region)
				if err != nil {
					s.logger.Error("region scan failed, skipping", errAttrs(err, "region", region)...)
					continue
				}
				results[idx] = matches
			}
		}()
	}
	wg.Wait()

	var all []model.Match
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

func (s *Scanner) scanRegion(ctx context.Context, region string) ([]model.Match, error) {
	cw, err := s.newClient(ctx, region)
	if err != nil {
		return nil, err
	}
	groups, err := cw.ListLambdaLogGroups(ctx, s.selfLogGroup)
	if err != nil {
		return nil, err
	}

	var matches []model.Match
	for _, group := range groups {
		stream, ok, err := cw.LatestStream(ctx, group)
		if err != nil {
			s.logger.Warn("stream lookup failed, skipping group", errAttrs(err, "region", region, "log_group", group)...)
			continue
		}
		if !ok {
			continue
		}
		events, err := cw.LatestEvents(ctx, group, stream, s.eventLimit)
		if err != nil {
			s.logger.Warn("event fetch failed, skipping stream", errAttrs(err, "region", region, "log_group", group, "log_stream", stream)...)
			continue
		}
		for _, e := range events {
			text := s.matchableText(aws.ToString(e.Message))
			if !containsKeyword(text) {
				continue
			}
			ts := time.Unix(0, aws.ToInt64(e.Timestamp)*int64(time.Millisecond))
			matches = append(matches, model.Match{
				Timestamp: ts,
				Region:    region,
				LogGroup:  group,
				LogStream: stream,
				Message:   text,
			})
		}
	}
	return matches, nil
}

// matchableText applies the optional JMESPath extraction to structured log
// lines. Extraction misses fall back to the raw message so plain-text logs
// keep matching.
func (s *Scanner) matchableText(raw string) string {
	if s.extractPath == "" {
		return raw
	}
	v, ok, err := util.ExtractMessageText(raw, s.extractPath)
	if err != nil || !ok {
		return raw
	}
	return v
}

func containsKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// errAttrs attaches the AWS API error code to the log attributes when one
// is available.
func errAttrs(err error, kv ...any) []any {
	attrs := append(kv, slog.Any("error", err))
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, slog.String("error_code", apiErr.ErrorCode()))
	}
	return attrs
}
