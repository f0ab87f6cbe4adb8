package calendar

// Advance moves d forward by exactly one day. febLength is February's length
// in d's current year for the calendar d belongs to (28 or 29).
//
// The order of the checks matters: the year rolls over on 31 December before
// the month-end test runs, and the month-end test compares against febLength
// rather than a literal 28 so leap years end February on the 29th.
func Advance(d *Date, febLength int) {
	if d.Day == 31 && d.Month == 12 {
		d.Year++
	}
	if d.Day == 31 ||
		(d.Day == 30 && d.Day == monthLengths[d.Month]) ||
		(d.Day == febLength && d.Month == 2) {
		d.Month = d.Month%12 + 1
		d.Day = 1
		return
	}
	d.Day++
}
