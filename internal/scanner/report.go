package scanner

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nao-Mk2/aws-lambda-error-notifier/internal/model"
)

const reportHeader = "Errors/Exceptions found in the following Lambda functions:\n"

// Render formats the matches into the notification body, in discovery
// order. runID, when set, is appended as a footer so a notification can be
// correlated with the scanner's own logs.
func Render(matches []model.Match, runID string) string {
	var b strings.Builder
	b.WriteString(reportHeader)
	for _, m := range matches {
		fmt.Fprintf(&b, "Lambda: %s\nRegion: %s\nTime: %s\nMessage: %s\n\n",
			m.LogGroup, m.Region, m.Timestamp.UTC().Format(time.RFC3339), m.Message)
	}
	if runID != "" {
		fmt.Fprintf(&b, "Scan run: %s\n", runID)
	}
	return b.String()
}

// Summary is the human-readable result line returned by every invocation,
// reported or not.
func Summary(count int) string {
	return fmt.Sprintf("%d errors/exceptions found and reported.", count)
}
