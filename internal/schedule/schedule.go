package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Profile selects which weekday table a Schedule is built from.
type Profile string

const (
	// ProfileSplit serves mornings on Mon/Wed/Fri and evenings on Tue/Thu.
	ProfileSplit Profile = "split"
	// ProfileFixed serves the same list on every weekday.
	ProfileFixed Profile = "fixed"
)

var (
	morningSlots = []string{
		"09:00", "09:30",
		"10:00", "10:30",
		"11:00", "11:30",
		"12:00", "12:30",
	}
	eveningSlots = []string{
		"16:30", "17:00",
		"17:30", "18:00",
		"18:30", "19:00",
		"19:30", "20:00",
	}
)

// Schedule maps each weekday to its ordered list of bookable times of day.
type Schedule struct {
	profile   Profile
	byWeekday map[time.Weekday][]string
}

// ParseProfile converts a configuration string into a Profile.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case ProfileSplit, ProfileFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown schedule profile %q", s)
	}
}

// New builds the weekday table for the given profile.
func New(profile Profile) (*Schedule, error) {
	s := &Schedule{profile: profile}

	switch profile {
	case ProfileSplit:
		s.byWeekday = map[time.Weekday][]string{
			time.Monday:    morningSlots,
			time.Tuesday:   eveningSlots,
			time.Wednesday: morningSlots,
			time.Thursday:  eveningSlots,
			time.Friday:    morningSlots,
		}
	case ProfileFixed:
		s.byWeekday = map[time.Weekday][]string{
			time.Monday:    morningSlots,
			time.Tuesday:   morningSlots,
			time.Wednesday: morningSlots,
			time.Thursday:  morningSlots,
			time.Friday:    morningSlots,
		}
	default:
		return nil, fmt.Errorf("unknown schedule profile %q", profile)
	}

	return s, nil
}

// MustNew is like New but panics on an unknown profile.
func MustNew(profile Profile) *Schedule {
	s, err := New(profile)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schedule) Profile() Profile {
	return s.profile
}

// SlotsFor returns the ordered slot list for the weekday of date.
// Weekends yield an empty slice. The returned slice is a copy.
func (s *Schedule) SlotsFor(date time.Time) []string {
	slots := s.byWeekday[date.Weekday()]
	out := make([]string, len(slots))
	copy(out, slots)
	return out
}

// Allows reports whether hhmm is one of the slots offered on date.
func (s *Schedule) Allows(date time.Time, hhmm string) bool {
	for _, slot := range s.byWeekday[date.Weekday()] {
		if slot == hhmm {
			return true
		}
	}
	return false
}

// IsWeekday reports whether date falls on Monday through Friday.
func IsWeekday(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
// The result is midnight UTC so its weekday does not depend on the local zone.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders the calendar date of t (in t's own location) as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidTime reports whether s is a well-formed HH:MM time of day.
func ValidTime(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}
