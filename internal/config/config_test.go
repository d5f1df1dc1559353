package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REGIONS", "us-east-1,us-west-2")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:alerts")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1", "us-west-2"}, cfg.Regions)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:alerts", cfg.SNSTopicARN)
	assert.Equal(t, int32(50), cfg.EventLimit)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Empty(t, cfg.SelfLogGroup)
	assert.Empty(t, cfg.ExtractPath)
}

func TestLoad_TrimsAndDropsEmptyRegions(t *testing.T) {
	t.Setenv("REGIONS", " us-east-1 , ,eu-west-1,")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:alerts")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, cfg.Regions)
}

func TestLoad_EmptyRegionsIsAllowed(t *testing.T) {
	t.Setenv("REGIONS", "")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:alerts")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Regions)
}

func TestLoad_MissingTopicFails(t *testing.T) {
	t.Setenv("REGIONS", "us-east-1")
	t.Setenv("SNS_TOPIC_ARN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REGIONS", "us-east-1")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:alerts")
	t.Setenv("SELF_LOG_GROUP", "/aws/lambda/error-notifier")
	t.Setenv("EXTRACT_PATH", "log.message")
	t.Setenv("EVENT_LIMIT", "10")
	t.Setenv("SCAN_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/aws/lambda/error-notifier", cfg.SelfLogGroup)
	assert.Equal(t, "log.message", cfg.ExtractPath)
	assert.Equal(t, int32(10), cfg.EventLimit)
	assert.Equal(t, 2, cfg.ScanWorkers)
}
