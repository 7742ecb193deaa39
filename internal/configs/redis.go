package config

import (
	"github.com/redis/rueidis"
)

// NewRedisClient connects to the audit-log document store. Callers treat a
// connection error as non-fatal; the log repository then serves its demo
// fallback on reads.
func NewRedisClient(addr string) (rueidis.Client, error) {
	return rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
}
