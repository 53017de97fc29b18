package service

import (
	"testing"
	"time"

	"stayclean_backend/internal/cleanings/repository"
)

// 2025-06-16 is a Monday.
var monday = time.Date(2025, time.June, 16, 11, 0, 0, 0, time.UTC)
var tuesday = monday.AddDate(0, 0, 1)

func TestWorksOn_ScheduleRowWinsOverDayCodes(t *testing.T) {
	m := repository.Membership{
		WorkingDayCodes: []string{"MON", "TUE"},
		ScheduleDays: []repository.ScheduleDay{
			{Weekday: 1, IsWorking: false},
		},
	}

	if WorksOn(m, monday) {
		t.Fatal("expected explicit non-working Monday row to win over day codes")
	}
	if !WorksOn(m, tuesday) {
		t.Fatal("expected Tuesday to fall through to day codes")
	}
}

func TestWorksOn_DayCodesCaseInsensitive(t *testing.T) {
	m := repository.Membership{WorkingDayCodes: []string{" mon ", "Tue"}}

	if !WorksOn(m, monday) {
		t.Fatal("expected 'mon' to match Monday")
	}
	if !WorksOn(m, tuesday) {
		t.Fatal("expected 'Tue' to match Tuesday")
	}
	if WorksOn(m, monday.AddDate(0, 0, 2)) {
		t.Fatal("expected Wednesday to not match")
	}
}

func TestWorksOn_NoScheduleDataMeansEveryDay(t *testing.T) {
	m := repository.Membership{}

	for offset := 0; offset < 7; offset++ {
		if !WorksOn(m, monday.AddDate(0, 0, offset)) {
			t.Fatalf("expected day offset %d to be working", offset)
		}
	}
}

func TestFormatWorkingDays(t *testing.T) {
	tests := []struct {
		name string
		m    repository.Membership
		want string
	}{
		{"no data", repository.Membership{}, "every day"},
		{"codes", repository.Membership{WorkingDayCodes: []string{"MON", "WED"}}, "Mon, Wed"},
		{
			"row excludes one day",
			repository.Membership{ScheduleDays: []repository.ScheduleDay{{Weekday: 0, IsWorking: false}}},
			"Mon, Tue, Wed, Thu, Fri, Sat",
		},
		{
			"nothing left",
			repository.Membership{WorkingDayCodes: []string{"XXX"}},
			"no working days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatWorkingDays(tt.m); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
