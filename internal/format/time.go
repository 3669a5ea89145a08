package format

import "time"

const (
	filetimeOffset = 116444736000000000 // difference between FILETIME epoch and Unix epoch in 100ns units
	filetimeUnit   = 100                // FILETIME units are 100ns

	// time32Epoch is 1980-01-01T00:00:00Z in Unix seconds.
	time32Epoch = 315532800
)

// FiletimeToTime converts a Windows FILETIME value to time.Time.
func FiletimeToTime(v uint64) time.Time {
	if v <= filetimeOffset {
		return time.Unix(0, 0).UTC()
	}
	ticks := v - filetimeOffset
	const perSecond = uint64(time.Second / filetimeUnit)
	return time.Unix(int64(ticks/perSecond), int64(ticks%perSecond)*filetimeUnit).UTC()
}

// TimeToFiletime converts a time.Time to a Windows FILETIME value.
func TimeToFiletime(t time.Time) uint64 {
	ns := t.UnixNano()
	if ns < 0 {
		ns = 0
	}
	return uint64(ns)/filetimeUnit + filetimeOffset
}

// Time32ToUnix converts a TIME32 value (seconds since 1980-01-01 UTC) to Unix seconds.
func Time32ToUnix(v uint32) int64 {
	return int64(v) + time32Epoch
}
