package forecast

import "time"

// monthIndex maps a calendar month to a linear index so month arithmetic
// never overflows into a neighbouring month (Jan 31 + 1 month stays in Feb).
type monthIndex int

func monthOf(t time.Time) monthIndex {
	return monthIndex(t.Year()*12 + int(t.Month()) - 1)
}

func (m monthIndex) add(n int) monthIndex {
	return m + monthIndex(n)
}

func (m monthIndex) year() int {
	return int(m) / 12
}

func (m monthIndex) month() time.Month {
	return time.Month(int(m)%12 + 1)
}

// start returns the first instant of the month in loc.
func (m monthIndex) start(loc *time.Location) time.Time {
	return time.Date(m.year(), m.month(), 1, 0, 0, 0, 0, loc)
}

// label is the locale-neutral month key, e.g. "2024-03".
func (m monthIndex) label() string {
	return m.start(time.UTC).Format("2006-01")
}

// dueIn returns anchor's day of month placed in m, clamped to the last day
// of m when the month is shorter.
func dueIn(anchor time.Time, m monthIndex) time.Time {
	last := m.add(1).start(anchor.Location()).AddDate(0, 0, -1).Day()
	day := anchor.Day()
	if day > last {
		day = last
	}
	h, mi, s := anchor.Clock()
	return time.Date(m.year(), m.month(), day, h, mi, s, anchor.Nanosecond(), anchor.Location())
}
