package cronexpr

import (
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var previewParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// NextRuns returns up to count activation times of expr strictly after
// from. It only computes times; nothing is scheduled.
//
// Weekday 7 is read as Sunday. A year field filters the results, and the
// search stops once it passes the last representable year.
//
// Some expressions pass ValidateField yet name no instant, e.g. a reversed
// range "17-9" or a zero step "*/0". Those fail with *InvalidExpressionError
// carrying the evaluator's reason, like any other rejected expression.
func NextRuns(expr string, from time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return nil, nil
	}

	f, err := Parse(expr)
	if err != nil {
		return nil, err
	}

	spec := strings.Join([]string{
		f.Second, f.Minute, f.Hour, f.Day, f.Month, normalizeWeekday(f.Weekday),
	}, " ")
	schedule, err := previewParser.Parse(spec)
	if err != nil {
		return nil, &InvalidExpressionError{Expression: expr, Reason: err.Error()}
	}

	years := expandYears(f.Year)
	maxYear := fieldRanges[FieldYear].Max

	var runs []time.Time
	current := from
	for len(runs) < count {
		next := schedule.Next(current)
		if next.IsZero() || next.Year() > maxYear {
			break
		}
		if years == nil || years[next.Year()] {
			runs = append(runs, next)
			current = next
			continue
		}
		current = time.Date(next.Year()+1, time.January, 1, 0, 0, 0, 0, next.Location()).Add(-time.Second)
	}
	return runs, nil
}

// normalizeWeekday rewrites 7 to 0, which is the only Sunday the preview
// parser knows.
func normalizeWeekday(v string) string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		switch {
		case p == "7":
			parts[i] = "0"
		case strings.HasSuffix(p, "-7"):
			lo := strings.TrimSuffix(p, "-7")
			if lo == "7" {
				parts[i] = "0"
			} else {
				parts[i] = lo + "-6,0"
			}
		}
	}
	return strings.Join(parts, ",")
}

// expandYears returns the allowed years, or nil when every year matches.
func expandYears(v string) map[int]bool {
	if v == "" || v == "*" || v == "?" {
		return nil
	}
	r := fieldRanges[FieldYear]
	years := make(map[int]bool)
	for _, p := range strings.Split(v, ",") {
		switch {
		case strings.HasPrefix(p, "*/"):
			step, _ := strconv.Atoi(p[2:])
			if step <= 0 {
				continue
			}
			for y := r.Min; y <= r.Max; y += step {
				years[y] = true
			}
		case strings.Contains(p, "-"):
			lo, _ := strconv.Atoi(p[:strings.Index(p, "-")])
			hi, _ := strconv.Atoi(p[strings.Index(p, "-")+1:])
			for y := lo; y <= hi; y++ {
				years[y] = true
			}
		default:
			y, _ := strconv.Atoi(p)
			years[y] = true
		}
	}
	return years
}
