// Package clock provides a stubbable time source for execution timing.
package clock

import "time"

// NowFunc returns current time, tests may replace it.
var NowFunc = time.Now

// Now returns NowFunc()
func Now() time.Time { return NowFunc() }

// Since returns time elapsed since started according to NowFunc
func Since(started time.Time) time.Duration { return Now().Sub(started) }
