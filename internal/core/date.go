package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthNamesIndo is 1-indexed; index 0 is unused.
var monthNamesIndo = [13]string{
	"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var dayNamesIndo = [7]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// jakartaLocation resolves Asia/Jakarta once. Falls back to a fixed
// UTC+7 zone on systems without tzdata.
var jakartaLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}()

// JakartaNow returns the current time in Asia/Jakarta, the timezone all
// transactions are recorded in.
func JakartaNow() time.Time {
	return time.Now().In(jakartaLocation)
}

// MonthName returns the Indonesian month name, or "" for out-of-range
// values.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNamesIndo[month]
}

// WorksheetName builds the worksheet label for a month, e.g.
// "Januari 2025". It is the addressing key for monthly data and must
// round-trip through ParseWorksheetName.
func WorksheetName(year, month int) string {
	return fmt.Sprintf("%s %d", MonthName(month), year)
}

// ParseWorksheetName is the inverse of WorksheetName. Month matching is
// case-insensitive; anything else fails.
func ParseWorksheetName(name string) (year, month int, err error) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid worksheet name %q", name)
	}
	for m := 1; m <= 12; m++ {
		if strings.EqualFold(monthNamesIndo[m], parts[0]) {
			month = m
			break
		}
	}
	if month == 0 {
		return 0, 0, fmt.Errorf("unknown month in worksheet name %q", name)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year in worksheet name %q", name)
	}
	return year, month, nil
}

// FormatDateIndo renders a date as "Senin, 2 Juni 2025".
func FormatDateIndo(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d",
		dayNamesIndo[int(t.Weekday())], t.Day(), MonthName(int(t.Month())), t.Year())
}

// DaysInMonth returns the calendar length of a month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
