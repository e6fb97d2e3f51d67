package format

import (
	"math"
	"strconv"
	"time"
)

const (
	msSecond = int64(1000)
	msMinute = 60 * msSecond
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
)

// Duration renders d in the short form used for diff suffixes: the largest
// unit that fits, rounded. For example 250ms, 3s, 2m, 1h, 4d.
func Duration(d time.Duration) string {
	ms := d.Milliseconds()
	abs := ms
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= msDay:
		return round(ms, msDay) + "d"
	case abs >= msHour:
		return round(ms, msHour) + "h"
	case abs >= msMinute:
		return round(ms, msMinute) + "m"
	case abs >= msSecond:
		return round(ms, msSecond) + "s"
	}
	return strconv.FormatInt(ms, 10) + "ms"
}

func round(ms, unit int64) string {
	return strconv.FormatInt(int64(math.Round(float64(ms)/float64(unit))), 10)
}
