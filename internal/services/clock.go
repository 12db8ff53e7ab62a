package services

import "time"

// Clock returns the current time. Offers and locks are kept at whole seconds.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().Truncate(time.Second) }
