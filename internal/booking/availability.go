package booking

// DayAvailability summarises the bookings already made for one date.
type DayAvailability struct {
	Date          string
	Count         int
	QuotaExceeded bool
	Taken         map[string]struct{}
}

// SlotStatus is one entry of a day's slot list.
type SlotStatus struct {
	Time  string
	Taken bool
}

// Availability scans bookings for those on date. The quota is exceeded once
// the count reaches maxPerDay.
func Availability(bookings []*Booking, date string, maxPerDay int) DayAvailability {
	a := DayAvailability{
		Date:  date,
		Taken: make(map[string]struct{}),
	}

	for _, b := range bookings {
		if b.Date != date {
			continue
		}
		a.Count++
		a.Taken[b.Time] = struct{}{}
	}

	a.QuotaExceeded = a.Count >= maxPerDay
	return a
}

func (a DayAvailability) IsTaken(hhmm string) bool {
	_, ok := a.Taken[hhmm]
	return ok
}

// SlotStatuses marks each slot as taken or free. When the day's quota is
// exhausted every slot is reported taken.
func (a DayAvailability) SlotStatuses(slots []string) []SlotStatus {
	out := make([]SlotStatus, len(slots))
	for i, s := range slots {
		out[i] = SlotStatus{
			Time:  s,
			Taken: a.QuotaExceeded || a.IsTaken(s),
		}
	}
	return out
}
