package service

import "time"

// SetNow swaps the analytics clock so tests control elapsed durations.
func SetNow(svc AnalyticsService, now func() time.Time) {
	if s, ok := svc.(*analyticsService); ok {
		s.now = now
	}
}
