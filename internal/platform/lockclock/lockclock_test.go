package lockclock

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %s: %v", value, err)
	}
	return parsed
}

func TestLockTimeForWeekIsAlwaysWednesdayEvening(t *testing.T) {
	inputs := []string{
		"2025-09-24T21:00:00-04:00", // Wednesday after airtime
		"2025-09-25T12:00:00-04:00", // Thursday
		"2025-09-28T09:30:00-04:00", // Sunday
		"2025-09-30T23:59:00-04:00", // Tuesday of the following week
		"2025-12-25T00:00:00-05:00",
		"2026-02-14T18:45:00Z",
	}

	for _, in := range inputs {
		lockAt := LockTimeForWeek(mustParse(t, in))

		civil := lockAt.In(eastern)
		if civil.Weekday() != time.Wednesday {
			t.Fatalf("lock for %s fell on %s, want Wednesday", in, civil.Weekday())
		}
		if civil.Hour() != 20 || civil.Minute() != 0 || civil.Second() != 0 {
			t.Fatalf("lock for %s at civil time %s, want 20:00:00", in, civil.Format("15:04:05"))
		}
	}
}

func TestLockTimeForWeekDeterministic(t *testing.T) {
	airDate := mustParse(t, "2025-10-02T12:00:00-04:00")

	first := LockTimeForWeek(airDate)
	for i := 0; i < 5; i++ {
		if got := LockTimeForWeek(airDate); !got.Equal(first) {
			t.Fatalf("lock time drifted between calls: %s vs %s", got, first)
		}
	}
}

func TestLockTimeForWeekAcrossFallBack(t *testing.T) {
	// EDT before the November 2 2025 transition, EST after. The civil
	// lock time stays 20:00 while the UTC instant shifts by an hour.
	beforeLock := LockTimeForWeek(mustParse(t, "2025-10-30T12:00:00Z")) // Thursday Oct 30
	afterLock := LockTimeForWeek(mustParse(t, "2025-11-06T12:00:00Z"))  // Thursday Nov 6

	if got := beforeLock.UTC(); !got.Equal(mustParse(t, "2025-10-30T00:00:00Z")) {
		t.Fatalf("pre-transition lock = %s, want 2025-10-30T00:00:00Z", got)
	}
	if got := afterLock.UTC(); !got.Equal(mustParse(t, "2025-11-06T01:00:00Z")) {
		t.Fatalf("post-transition lock = %s, want 2025-11-06T01:00:00Z", got)
	}

	_, beforeOffset := beforeLock.Zone()
	_, afterOffset := afterLock.Zone()
	if beforeOffset != -4*3600 || afterOffset != -5*3600 {
		t.Fatalf("zone offsets = %d/%d, want -14400/-18000", beforeOffset, afterOffset)
	}
}

func TestLockTimeForWeekAcrossSpringForward(t *testing.T) {
	// March 9 2025 is the EST→EDT transition.
	beforeLock := LockTimeForWeek(mustParse(t, "2025-03-06T15:00:00Z")) // Thursday Mar 6
	afterLock := LockTimeForWeek(mustParse(t, "2025-03-13T15:00:00Z"))  // Thursday Mar 13

	if got := beforeLock.UTC(); !got.Equal(mustParse(t, "2025-03-06T01:00:00Z")) {
		t.Fatalf("pre-transition lock = %s, want 2025-03-06T01:00:00Z", got)
	}
	if got := afterLock.UTC(); !got.Equal(mustParse(t, "2025-03-13T00:00:00Z")) {
		t.Fatalf("post-transition lock = %s, want 2025-03-13T00:00:00Z", got)
	}
}

func TestNextLockTime(t *testing.T) {
	cases := []struct {
		name string
		from string
		want string
	}{
		{
			name: "monday rolls to the coming wednesday",
			from: "2025-01-06T12:00:00-05:00",
			want: "2025-01-08T20:00:00-05:00",
		},
		{
			name: "wednesday morning is still this week",
			from: "2025-01-08T08:00:00-05:00",
			want: "2025-01-08T20:00:00-05:00",
		},
		{
			name: "wednesday 19:59 is still this week",
			from: "2025-01-08T19:59:59-05:00",
			want: "2025-01-08T20:00:00-05:00",
		},
		{
			name: "exactly 20:00 jumps a full week",
			from: "2025-01-08T20:00:00-05:00",
			want: "2025-01-15T20:00:00-05:00",
		},
		{
			name: "wednesday late evening jumps a full week",
			from: "2025-01-08T22:30:00-05:00",
			want: "2025-01-15T20:00:00-05:00",
		},
		{
			name: "thursday rolls to next wednesday",
			from: "2025-01-09T10:00:00-05:00",
			want: "2025-01-15T20:00:00-05:00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextLockTime(mustParse(t, tc.from))
			if want := mustParse(t, tc.want); !got.Equal(want) {
				t.Fatalf("NextLockTime(%s) = %s, want %s", tc.from, got, want)
			}
		})
	}
}

func TestNextLockTimeUsesEasternWallClock(t *testing.T) {
	// 2025-01-09T01:00Z is still Wednesday 20:00 Jan 8 in New York; the
	// deadline has arrived there even though UTC has moved to Thursday.
	from := mustParse(t, "2025-01-09T01:00:00Z")

	got := NextLockTime(from)
	if want := mustParse(t, "2025-01-15T20:00:00-05:00"); !got.Equal(want) {
		t.Fatalf("NextLockTime(%s) = %s, want %s", from, got, want)
	}
}

func TestIsLocked(t *testing.T) {
	lockAt := mustParse(t, "2025-01-08T20:00:00-05:00")

	if IsLocked(lockAt, lockAt.Add(-time.Second)) {
		t.Fatal("one second before the deadline should be open")
	}
	if !IsLocked(lockAt, lockAt) {
		t.Fatal("the deadline instant itself should be locked")
	}
	if !IsLocked(lockAt, lockAt.Add(time.Second)) {
		t.Fatal("one second after the deadline should be locked")
	}
}

func TestAirTimeIsPastItsOwnWeekLock(t *testing.T) {
	// Episodes air at or after Wednesday 20:00 Eastern, so an air
	// instant is always locked relative to its own week.
	airTimes := []string{
		"2025-09-24T21:00:00-04:00",
		"2025-09-25T02:00:00Z",
		"2025-11-05T20:00:00-05:00",
	}

	for _, in := range airTimes {
		at := mustParse(t, in)
		if !IsLocked(LockTimeForWeek(at), at) {
			t.Fatalf("air time %s not locked against its own week", in)
		}
	}
}
