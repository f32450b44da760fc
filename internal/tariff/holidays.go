// README: French public-holiday calendar with Easter computed by the Gauss algorithm.
package tariff

import "time"

// EasterSunday computes Easter for a Gregorian year using the anonymous
// algorithm (Gauss's method). Integer division throughout.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Holidays returns the French public holidays for a year, in calendar order:
// the 8 fixed dates plus Easter Sunday and the three dates derived from it
// (Easter Monday, Ascension, Whit Monday).
func Holidays(year int) []time.Time {
	easter := EasterSunday(year)
	fixed := []time.Time{
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),   // New Year
		time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC),       // Labour Day
		time.Date(year, time.May, 8, 0, 0, 0, 0, time.UTC),       // WWII Victory
		time.Date(year, time.July, 14, 0, 0, 0, 0, time.UTC),     // Bastille Day
		time.Date(year, time.August, 15, 0, 0, 0, 0, time.UTC),   // Assumption
		time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC),  // All Saints
		time.Date(year, time.November, 11, 0, 0, 0, 0, time.UTC), // Armistice
		time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), // Christmas
	}
	movable := []time.Time{
		easter,
		easter.AddDate(0, 0, 1),  // Easter Monday
		easter.AddDate(0, 0, 39), // Ascension
		easter.AddDate(0, 0, 50), // Whit Monday
	}

	all := append(fixed, movable...)
	// Insertion sort; 12 entries.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].Before(all[j-1]); j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	return all
}

// IsHoliday reports whether t falls on a public holiday, comparing by
// calendar date in t's location.
func IsHoliday(t time.Time) bool {
	for _, h := range Holidays(t.Year()) {
		if h.Month() == t.Month() && h.Day() == t.Day() {
			return true
		}
	}
	return false
}
