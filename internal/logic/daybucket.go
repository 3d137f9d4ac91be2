package logic

import (
	"fmt"
	"regexp"
	"time"
)

const dayFormat = "2006-01-02"

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// nowFn is swappable in tests.
var nowFn = time.Now

// DayBucket formats the current wall-clock time in loc as the calendar date
// used to partition counters. A new bucket begins at local midnight.
func DayBucket(loc *time.Location) string {
	return nowFn().In(loc).Format(dayFormat)
}

// ValidDay checks the YYYY-MM-DD shape of a caller-supplied day value.
func ValidDay(day string) bool {
	if !dayPattern.MatchString(day) {
		return false
	}
	_, err := time.Parse(dayFormat, day)
	return err == nil
}

// LoadLocation resolves the configured timezone identifier, wrapping the
// error with the offending name.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
