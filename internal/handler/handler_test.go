package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/config"
	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanner struct {
	matches     []model.Match
	seenRegions []string
}

func (s *stubScanner) Scan(ctx context.Context, regions []string) []model.Match {
	s.seenRegions = regions
	return s.matches
}

type stubPublisher struct {
	reports []string
	err     error
}

func (p *stubPublisher) Publish(ctx context.Context, report string) error {
	p.reports = append(p.reports, report)
	return p.err
}

func newApp(sc *stubScanner, pub *stubPublisher) *App {
	return &App{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:   &config.Config{Regions: []string{"us-east-1", "eu-west-1"}},
		Scanner:  sc,
		Notifier: pub,
	}
}

func someMatches(n int) []model.Match {
	ts := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	out := make([]model.Match, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Match{
			Timestamp: ts.Add(time.Duration(i) * time.Second),
			Region:    "us-east-1",
			LogGroup:  "/aws/lambda/app",
			LogStream: "s1",
			Message:   "ERROR something",
		})
	}
	return out
}

func TestHandleEvent_NoMatchesSkipsPublish(t *testing.T) {
	sc := &stubScanner{}
	pub := &stubPublisher{}
	app := newApp(sc, pub)

	resp, err := app.HandleEvent(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0 errors/exceptions found and reported.", resp.Body)
	assert.Empty(t, pub.reports, "notifier must not be invoked with zero matches")
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, sc.seenRegions)
}

func TestHandleEvent_MatchesArePublishedOnce(t *testing.T) {
	sc := &stubScanner{matches: someMatches(3)}
	pub := &stubPublisher{}
	app := newApp(sc, pub)

	resp, err := app.HandleEvent(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3 errors/exceptions found and reported.", resp.Body)
	require.Len(t, pub.reports, 1)
	assert.Contains(t, pub.reports[0], "Errors/Exceptions found in the following Lambda functions:")
	assert.Equal(t, 3, strings.Count(pub.reports[0], "Lambda: /aws/lambda/app"))
	assert.Contains(t, pub.reports[0], "Scan run: ")
}

func TestHandleEvent_PublishFailureIsNot200(t *testing.T) {
	sc := &stubScanner{matches: someMatches(1)}
	pub := &stubPublisher{err: errors.New("sns unavailable")}
	app := newApp(sc, pub)

	resp, err := app.HandleEvent(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "failed to publish")
}
