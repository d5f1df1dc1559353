package cmd

import (
	"flag"
	"os"
	"strings"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/util"
)

// Options holds CLI options after parsing flags and env defaults.
type Options struct {
	RegionsCSV   string
	TopicARN     string
	SelfLogGroup string
	Extract      string
	Profile      string
	EventLimit   int
	Workers      int
	DryRun       bool
}

// Validate checks relationships and required flags.
// Returns an error message and exit code; if no regions are given,
// it returns ("", 2) and the caller should invoke usage().
func (o *Options) Validate() (string, int) {
	if strings.TrimSpace(o.RegionsCSV) == "" {
		// Caller prints usage() which exits(2)
		return "", 2
	}
	if !o.DryRun && o.TopicARN == "" {
		return "error: --topic-arn required unless --dry-run", 2
	}
	if o.Extract != "" {
		if err := util.ValidateExtractPath(o.Extract); err != nil {
			return "error: " + err.Error(), 2
		}
	}
	return "", 0
}

// CollectOptions parses flags with environment-backed defaults and returns Options.
func CollectOptions() *Options {
	regionsCSV := os.Getenv("REGIONS")
	topicARN := os.Getenv("SNS_TOPIC_ARN")
	selfLogGroup := os.Getenv("SELF_LOG_GROUP")
	var extract string
	var profile string
	var eventLimit int
	var workers int
	var dryRun bool

	flag.StringVar(&regionsCSV, "regions", regionsCSV, "Comma-separated AWS regions to scan (or set REGIONS)")
	flag.StringVar(&topicARN, "topic-arn", topicARN, "SNS topic ARN for the notification (or set SNS_TOPIC_ARN)")
	flag.StringVar(&selfLogGroup, "self-log-group", selfLogGroup, "Log group to exclude from the scan (or set SELF_LOG_GROUP)")
	flag.StringVar(&extract, "extract", "", "JMESPath applied to JSON log messages before keyword matching")
	flag.StringVar(&profile, "profile", "", "AWS shared config profile (or set AWS_PROFILE)")
	flag.IntVar(&eventLimit, "limit", 50, "Events fetched from each sampled stream (newest page)")
	flag.IntVar(&workers, "workers", 4, "Concurrent region scans")
	flag.BoolVar(&dryRun, "dry-run", false, "Print the report instead of publishing to SNS")
	flag.Parse()

	return &Options{
		RegionsCSV:   regionsCSV,
		TopicARN:     topicARN,
		SelfLogGroup: selfLogGroup,
		Extract:      extract,
		Profile:      profile,
		EventLimit:   eventLimit,
		Workers:      workers,
		DryRun:       dryRun,
	}
}

// ParseRegionsCSV turns a comma-separated regions string into a slice, trimming empties.
func ParseRegionsCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	var regions []string
	for _, r := range strings.Split(csv, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			regions = append(regions, r)
		}
	}
	return regions
}

// ResolveProfile returns the profile from flag or AWS_PROFILE env, or empty.
func ResolveProfile(flagProfile string) string {
	if flagProfile != "" {
		return flagProfile
	}
	return os.Getenv("AWS_PROFILE")
}
