// Package redis bootstraps a go-redis client from environment configuration
// with connection retries and a readiness probe helper.
package redis
