// Package observability exposes Prometheus metrics for the application.
package observability

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis errors by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chirper_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"command"})

// SessionsCreated counts new login sessions.
var SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chirper_sessions_created_total",
	Help: "Total number of sessions created on login",
})

// TweetsCreated counts stored tweets by kind (original or retweet).
var TweetsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chirper_tweets_created_total",
	Help: "Total number of tweets created by kind",
}, []string{"kind"})

// NewHTTPMetrics returns the per-route HTTP metrics middleware.
func NewHTTPMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}
