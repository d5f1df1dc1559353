package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// LambdaLogGroupPrefix is the naming convention for Lambda function log
// groups; enumeration is restricted to it.
const LambdaLogGroupPrefix = "/aws/lambda/"

// LogsAPI is the subset of the CloudWatch Logs API we use.
type LogsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error)
}

// CloudWatchClient reads Lambda log groups, streams and events in one region.
type CloudWatchClient struct {
	client LogsAPI
	region string
}

// NewCloudWatchClient loads AWS configuration for the given region and
// returns a CloudWatch Logs client. profile may be empty to use the
// default credential resolution (the Lambda execution role).
func NewCloudWatchClient(ctx context.Context, region, profile string) (*CloudWatchClient, error) {
	if region == "" {
		return nil, fmt.Errorf("region required")
	}
	cfgOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if profile != "" {
		cfgOpts = append(cfgOpts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, err
	}
	return &CloudWatchClient{client: cloudwatchlogs.NewFromConfig(cfg), region: region}, nil
}

// NewCloudWatchClientWithAPI wires an explicit API implementation; used by
// tests and by callers that manage SDK configuration themselves.
func NewCloudWatchClientWithAPI(api LogsAPI, region string) *CloudWatchClient {
	return &CloudWatchClient{client: api, region: region}
}

// Region returns the region this client reads from.
func (c *CloudWatchClient) Region() string {
	return c.region
}

// ListLambdaLogGroups returns the names of all Lambda log groups in the
// region, paginating until exhausted. The group named selfLogGroup is
// excluded so the scanner never alerts on its own output.
func (c *CloudWatchClient) ListLambdaLogGroups(ctx context.Context, selfLogGroup string) ([]string, error) {
	var groups []string
	var next *string
	for {
		out, err := c.client.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
			LogGroupNamePrefix: aws.String(LambdaLogGroupPrefix),
			NextToken:          next,
		})
		if err != nil {
			return nil, err
		}
		for _, g := range out.LogGroups {
			name := aws.ToString(g.LogGroupName)
			if name == "" || name == selfLogGroup {
				continue
			}
			groups = append(groups, name)
		}
		if out.NextToken == nil || (next != nil && aws.ToString(out.NextToken) == aws.ToString(next)) {
			break
		}
		next = out.NextToken
	}
	return groups, nil
}

// LatestStream returns the most recently active stream of the group.
// Groups with zero streams return ("", false, nil); ties between equally
// recent streams resolve to the first entry the API returns.
func (c *CloudWatchClient) LatestStream(ctx context.Context, group string) (string, bool, error) {
	out, err := c.client.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(group),
		OrderBy:      types.OrderByLastEventTime,
		Descending:   aws.Bool(true),
		Limit:        aws.Int32(1),
	})
	if err != nil {
		return "", false, err
	}
	if len(out.LogStreams) == 0 {
		return "", false, nil
	}
	name := aws.ToString(out.LogStreams[0].LogStreamName)
	if name == "" {
		return "", false, nil
	}
	return name, true, nil
}

// LatestEvents fetches the newest page of events from the stream, at most
// limit entries.
func (c *CloudWatchClient) LatestEvents(ctx context.Context, group, stream string, limit int32) ([]types.OutputLogEvent, error) {
	out, err := c.client.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
		StartFromHead: aws.Bool(false),
		Limit:         aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	return out.Events, nil
}
