package binding

import "math/rand/v2"

// Window is an overtime span in epoch seconds.
type Window struct {
	Start int64
	End   int64
}

// Duration returns the window length in seconds.
func (w Window) Duration() int64 {
	return w.End - w.Start
}

var (
	windowStartHours   = []int64{8, 9, 10}
	windowStartMinutes = []int64{0, 15, 30, 45}
	// durations in half hours: 8.0h .. 10.0h
	windowHalfHours = []int64{16, 17, 18, 19, 20}
)

// RandomWindow synthesises a coarse overtime window on the UTC+8 calendar
// day containing day. Every component is drawn uniformly from rng; a nil rng
// uses the package-level source.
func RandomWindow(day int64, rng *rand.Rand) Window {
	pick := rand.IntN
	if rng != nil {
		pick = rng.IntN
	}

	hour := windowStartHours[pick(len(windowStartHours))]
	minute := windowStartMinutes[pick(len(windowStartMinutes))]
	halves := windowHalfHours[pick(len(windowHalfHours))]

	start := DayStart(day) + hour*3600 + minute*60
	return Window{Start: start, End: start + halves*1800}
}
