package model

import "time"

// Match represents a single log event flagged by the keyword filter.
type Match struct {
	Timestamp time.Time
	Region    string
	LogGroup  string
	LogStream string
	Message   string
}
