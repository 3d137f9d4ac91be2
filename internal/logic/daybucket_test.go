package logic

import (
	"testing"
	"time"
)

func TestDayBucketUsesLocalMidnight(t *testing.T) {
	// 23:30 UTC on June 1st is already June 2nd in Dhaka (UTC+6).
	fixed := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	nowFn = func() time.Time { return fixed }
	defer func() { nowFn = time.Now }()

	dhaka, err := LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	if got := DayBucket(dhaka); got != "2025-06-02" {
		t.Fatalf("expected 2025-06-02 in Dhaka, got %s", got)
	}
	if got := DayBucket(time.UTC); got != "2025-06-01" {
		t.Fatalf("expected 2025-06-01 in UTC, got %s", got)
	}
}

func TestValidDay(t *testing.T) {
	valid := []string{"2025-06-01", "1999-12-31", "2025-02-28"}
	for _, d := range valid {
		if !ValidDay(d) {
			t.Errorf("expected %q to be valid", d)
		}
	}
	invalid := []string{"", "2025-6-1", "20250601", "2025-13-01", "2025-02-30", "yesterday"}
	for _, d := range invalid {
		if ValidDay(d) {
			t.Errorf("expected %q to be invalid", d)
		}
	}
}

func TestLoadLocationUnknownZone(t *testing.T) {
	if _, err := LoadLocation("Mars/Olympus_Mons"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
