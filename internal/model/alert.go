package model

import "time"

// Alert is a user-facing notice about a mutation that did not go through.
type Alert struct {
	Entity    string
	Operation string
	Key       string
	Message   string
	CreatedAt time.Time
}
