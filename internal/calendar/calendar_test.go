package calendar

import (
	"errors"
	"math"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

//
// 1. ParseDate / DateOf
//

func TestParseDate_UTCMidnight(t *testing.T) {
	d := mustDate(t, "2025-01-03")
	want := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) || d.Location() != time.UTC {
		t.Fatalf("expected %v, got %v", want, d)
	}
}

func TestParseDate_IgnoresTimeSuffix(t *testing.T) {
	// Late evening in UTC+3 must not roll back to the previous day.
	d := mustDate(t, "2025-01-03T01:30:00+03:00")
	if FormatDate(d) != "2025-01-03" {
		t.Fatalf("expected 2025-01-03, got %s", FormatDate(d))
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-1-3", "2025-13-01", "03.01.2025", "yesterday!"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q): expected ErrInvalidDate, got %v", s, err)
		}
	}
}

func TestDateOf_KeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2025, 1, 3, 6, 0, 0, 0, loc) // 2025-01-02 20:00 UTC
	if got := FormatDate(DateOf(local)); got != "2025-01-03" {
		t.Fatalf("expected 2025-01-03, got %s", got)
	}
}

//
// 2. DateRange
//

func TestNewDateRange_EndBeforeStart(t *testing.T) {
	_, err := NewDateRange(mustDate(t, "2025-01-05"), mustDate(t, "2025-01-01"))
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestNewDateRange_SingleDay(t *testing.T) {
	r, err := ParseDateRange("2025-01-05", "2025-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Start.Equal(r.End) || !r.Start.Equal(mustDate(t, "2025-01-05")) {
		t.Fatalf("expected single-day range, got %s", r)
	}
	if d := Day(mustDate(t, "2025-01-05")); !d.Start.Equal(r.Start) || !d.End.Equal(r.End) {
		t.Fatalf("expected ParseDateRange to match Day, got %s", r)
	}
}

//
// 3. RangesOverlap
//

func TestRangesOverlap_TouchingDaysOverlap(t *testing.T) {
	if !RangesOverlap(mustDate(t, "2025-01-01"), mustDate(t, "2025-01-05"), mustDate(t, "2025-01-05"), mustDate(t, "2025-01-08")) {
		t.Fatalf("ranges sharing the boundary day must overlap")
	}
}

func TestRangesOverlap_Adjacent(t *testing.T) {
	if RangesOverlap(mustDate(t, "2025-01-01"), mustDate(t, "2025-01-05"), mustDate(t, "2025-01-06"), mustDate(t, "2025-01-10")) {
		t.Fatalf("adjacent ranges must not overlap")
	}
}

func TestRangesOverlap_Symmetric(t *testing.T) {
	days := []string{"2025-01-01", "2025-01-03", "2025-01-05", "2025-01-07"}
	for _, a1 := range days {
		for _, a2 := range days {
			for _, b1 := range days {
				for _, b2 := range days {
					as, ae, bs, be := mustDate(t, a1), mustDate(t, a2), mustDate(t, b1), mustDate(t, b2)
					if ae.Before(as) || be.Before(bs) {
						continue
					}
					if RangesOverlap(as, ae, bs, be) != RangesOverlap(bs, be, as, ae) {
						t.Fatalf("asymmetric result for %s..%s / %s..%s", a1, a2, b1, b2)
					}
				}
			}
		}
	}
}

func TestRangesOverlap_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 1, 5, 0, 1, 0, 0, time.UTC)
	if !RangesOverlap(a, a, b, b) {
		t.Fatalf("instants on the same day must overlap")
	}
}

//
// 4. Paginate
//

func TestPaginate_Basic(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	page := Paginate(items, 1, 5)

	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items on page 1, got %d", len(page.Items))
	}
	if page.HasPrev {
		t.Fatalf("expected HasPrev=false on first page")
	}
	if !page.HasNext {
		t.Fatalf("expected HasNext=true on first page")
	}
	if page.Total != len(items) {
		t.Fatalf("expected Total=%d, got %d", len(items), page.Total)
	}
}

func TestPaginate_LastPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	page := Paginate(items, 2, 4)

	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items on last page, got %d", len(page.Items))
	}
	if !page.HasPrev || page.HasNext {
		t.Fatalf("unexpected prev/next flags: %+v", page)
	}
}

func TestPaginate_EmptyIsNotNil(t *testing.T) {
	var items []int
	page := Paginate(items, 1, 10)

	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", page.Items)
	}
	if page.HasNext || page.HasPrev {
		t.Fatalf("expected no prev/next for empty list")
	}
}

func TestPaginate_PageSizeClamped(t *testing.T) {
	items := make([]int, MaxPageSize+10)
	page := Paginate(items, 1, 10_000)
	if page.PageSize != MaxPageSize || len(page.Items) != MaxPageSize {
		t.Fatalf("expected page size %d, got %d", MaxPageSize, page.PageSize)
	}
}

func TestPaginate_HugePage(t *testing.T) {
	items := []int{1, 2, 3}
	for _, p := range []int{math.MaxInt, math.MaxInt / 100, 3} {
		page := Paginate(items, p, MaxPageSize)
		if len(page.Items) != 0 || page.HasNext || page.Total != 3 {
			t.Fatalf("page %d: expected empty page, got %+v", p, page)
		}
	}
}
