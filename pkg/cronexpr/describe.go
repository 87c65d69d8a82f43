package cronexpr

import (
	"regexp"
	"strings"
)

var (
	integerLiteral = regexp.MustCompile(`^\d+$`)
	singleDigit    = regexp.MustCompile(`^\d$`)
)

// Describe renders expr as a one-line summary for display. Input with fewer
// than six tokens is returned unchanged. The summary is never parsed back.
//
// The HH:MM clock form is used only when hour and minute are plain integers:
// a range or step in either slot would read as a wall-clock time, so
// "0 0 9-17 * * ?" renders per field as "9-17时 0分" instead of "9-17:00".
func (c *Catalog) Describe(expr string) string {
	tokens := strings.Fields(expr)
	if len(tokens) < 6 {
		return expr
	}
	second, minute, hour := tokens[0], tokens[1], tokens[2]
	day, month, weekday := tokens[3], tokens[4], tokens[5]
	year := ""
	if len(tokens) > 6 {
		year = tokens[6]
	}

	t := c.text
	var clauses []string

	// A clock reading needs plain numbers on both hands.
	if second == "0" && integerLiteral.MatchString(hour) && integerLiteral.MatchString(minute) {
		clauses = append(clauses, pad2(hour)+":"+pad2(minute))
	} else {
		if hour != "*" {
			clauses = append(clauses, t.hourClause(hour))
		}
		if minute != "*" {
			clauses = append(clauses, t.minuteClause(minute))
		}
		if second != "*" && second != "0" {
			clauses = append(clauses, t.secondClause(second))
		}
	}

	if day != "*" && day != "?" {
		clauses = append(clauses, t.dayClause(day))
	}
	if month != "*" {
		clauses = append(clauses, t.monthClause(month))
	}

	if weekday != "*" && weekday != "?" {
		switch {
		case weekday == "1-5":
			clauses = append(clauses, t.workdays)
		case weekday == "0,6":
			clauses = append(clauses, t.weekend)
		case singleDigit.MatchString(weekday) && int(weekday[0]-'0') < len(t.weekdayNames):
			clauses = append(clauses, t.weekdayNames[weekday[0]-'0'])
		default:
			clauses = append(clauses, t.weekdayRaw(weekday))
		}
	}

	if year != "" && year != "*" {
		clauses = append(clauses, t.yearClause(year))
	}

	if len(clauses) == 0 {
		return t.everySecond
	}
	return strings.Join(clauses, " ")
}

// Describe renders expr with the default catalog.
func Describe(expr string) string { return defaultCatalog.Describe(expr) }

func pad2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}
