// Package simtime implements the simulator's 360-day calendar: a Day is a
// plain count of simulated days, never wall-clock time.
package simtime

// DaysPerYear is the insurance convention used throughout the kernel: a
// simulated year is always 360 days, never a calendar year.
const DaysPerYear = 360

// Day is an unsigned day count since simulation start (day 0).
type Day uint64

// Year is a 1-indexed simulated year.
type Year uint32

// Offset returns the day n days after d.
func (d Day) Offset(n uint64) Day {
	return d + Day(n)
}

// YearOf returns the 1-indexed year containing d.
func YearOf(d Day) Year {
	return Year(uint64(d)/DaysPerYear + 1)
}

// YearStart returns the first day of year y.
func YearStart(y Year) Day {
	return Day(uint64(y-1) * DaysPerYear)
}

// YearEnd returns the last day of year y.
func YearEnd(y Year) Day {
	return Day(uint64(y)*DaysPerYear - 1)
}

// WithinYear returns the 0-indexed offset of d within its year.
func WithinYear(d Day) uint64 {
	return uint64(d) % DaysPerYear
}
