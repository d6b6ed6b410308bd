package lockclock

import "time"

// Weekly picks close Wednesday 20:00 America/New_York, the evening the
// episode airs. The rule is fixed; it is not configuration.
const (
	zoneName = "America/New_York"
	lockHour = 20
)

var eastern = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		// Missing tz database means every deadline would be wrong;
		// refuse to start.
		panic("lockclock: load zone " + zoneName + ": " + err.Error())
	}
	return loc
}

// LockTimeForWeek returns the Wednesday 20:00 Eastern instant on or before
// airDate's civil date in that zone. An episode airing Thursday locked the
// Wednesday evening before it.
func LockTimeForWeek(airDate time.Time) time.Time {
	civil := airDate.In(eastern)
	daysBack := (int(civil.Weekday()) - int(time.Wednesday) + 7) % 7
	wed := civil.AddDate(0, 0, -daysBack)
	return time.Date(wed.Year(), wed.Month(), wed.Day(), lockHour, 0, 0, 0, eastern)
}

// NextLockTime returns the first Wednesday 20:00 Eastern strictly after
// from. At exactly Wednesday 20:00 the current week's deadline has already
// passed, so the result is the following week's.
func NextLockTime(from time.Time) time.Time {
	civil := from.In(eastern)
	daysAhead := (int(time.Wednesday) - int(civil.Weekday()) + 7) % 7
	if daysAhead == 0 && civil.Hour() >= lockHour {
		daysAhead = 7
	}
	wed := civil.AddDate(0, 0, daysAhead)
	return time.Date(wed.Year(), wed.Month(), wed.Day(), lockHour, 0, 0, 0, eastern)
}

// IsLocked reports whether now has reached lockAt. Equality counts as
// locked: the moment the deadline arrives, writes are refused.
func IsLocked(lockAt, now time.Time) bool {
	return !now.Before(lockAt)
}
