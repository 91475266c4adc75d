package dto

import "time"

type HostRecord struct {
	Host           string
	FirstInstalled time.Time
	LastUpdate     time.Time
}

// HostResult reports one host's outcome from a bulk update. Error is
// empty on success.
type HostResult struct {
	Host  string
	Error string
}
