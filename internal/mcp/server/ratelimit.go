package server

import "golang.org/x/time/rate"

// callLimiter bounds the rate of tool calls so a looping agent cannot
// flood the geoprocessing backend.
type callLimiter struct {
	limiter *rate.Limiter
}

// newCallLimiter allows callsPerMinute sustained calls with a burst of
// the same size.
func newCallLimiter(callsPerMinute int) *callLimiter {
	return &callLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), callsPerMinute),
	}
}

// AllowCall reports whether another tool call may proceed now.
func (l *callLimiter) AllowCall() bool {
	return l.limiter.Allow()
}
