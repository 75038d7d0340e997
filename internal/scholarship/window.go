package scholarship

import (
	"fmt"
	"time"
)

// ResolveWindow maps a time_period string to an inclusive [start, end]
// deadline window. Named windows are computed from now; "YYYY-MM" expands to
// the full calendar month and "YYYY-MM-DD" to a single day. The window is
// always widened to cover whole days (00:00:00 through 23:59:59).
func ResolveWindow(period string, now time.Time) (time.Time, time.Time, error) {
	var start, end time.Time

	switch period {
	case "upcoming":
		start, end = now, now.AddDate(0, 0, 30)
	case "this_week":
		// Monday through Sunday of the current week.
		offset := (int(now.Weekday()) + 6) % 7
		start = now.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 6)
	case "this_month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, -1)
	case "last_7_days":
		start, end = now.AddDate(0, 0, -7), now
	case "last_month":
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = firstOfThis.AddDate(0, 0, -1)
		start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		if month, err := time.ParseInLocation("2006-01", period, now.Location()); err == nil {
			start = month
			end = month.AddDate(0, 1, -1)
		} else if day, err := time.ParseInLocation("2006-01-02", period, now.Location()); err == nil {
			start, end = day, day
		} else {
			return time.Time{}, time.Time{}, fmt.Errorf(
				"giá trị time_period %q không hợp lệ: phải là từ khóa hoặc theo định dạng YYYY-MM, YYYY-MM-DD", period)
		}
	}

	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	return start, end, nil
}

// FilterFormatted applies the time window and status filter to raw records
// and returns each surviving record formatted for the decision oracle.
//
// Failure modes stay in-band: an invalid period or an empty filtered set
// produce a single diagnostic record, never an error and never an empty
// slice, so the oracle cannot mistake absence-of-match for a tool failure.
func FilterFormatted(records []Scholarship, period, status string, now time.Time) []string {
	start, end, err := ResolveWindow(period, now)
	if err != nil {
		return []string{"Lỗi: " + err.Error()}
	}

	var out []string
	for _, s := range records {
		// Records without a parseable deadline never match a time filter.
		if s.Deadline == nil {
			continue
		}
		dl := *s.Deadline
		if dl.Before(start) || dl.After(end) {
			continue
		}

		switch status {
		case "all":
		case "open":
			if !s.Active(now) {
				continue
			}
		case "expired":
			if s.Active(now) {
				continue
			}
		default:
			// Unknown status matches nothing.
			continue
		}

		out = append(out, s.FormatFull(now))
	}

	if len(out) == 0 {
		return []string{fmt.Sprintf(
			"Không tìm thấy học bổng nào với trạng thái '%s' trong khoảng thời gian '%s'.", status, period)}
	}
	return out
}
