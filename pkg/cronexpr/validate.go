package cronexpr

import (
	"regexp"
	"strconv"
)

var tokenShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^\d+-\d+$`),
	regexp.MustCompile(`^\*/\d+$`),
	regexp.MustCompile(`^\d+(,\d+)+$`),
	regexp.MustCompile(`^\d+(-\d+)?(,\d+(-\d+)?)+$`),
}

var digitRun = regexp.MustCompile(`\d+`)

// ValidateField reports whether value is an acceptable token for the field.
//
// Empty, "*" and "?" pass for every field. Anything else must match one of
// the token shapes, and then every digit run in the value must fall inside
// the field's range. The divisor of a step is range-checked like any other
// number, so "*/30" is rejected for hour and "*/5" for year. Keep it that
// way: saved schedules were accepted under this rule.
//
// Day and weekday may both carry concrete values; that combination is not
// rejected here.
func ValidateField(value string, name FieldName) bool {
	if value == "" || value == "*" || value == "?" {
		return true
	}
	r, ok := fieldRanges[name]
	if !ok {
		return false
	}

	matched := false
	for _, shape := range tokenShapes {
		if shape.MatchString(value) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, run := range digitRun.FindAllString(value, -1) {
		n, err := strconv.Atoi(run)
		if err != nil || !r.Contains(n) {
			return false
		}
	}
	return true
}

// ValidateField is the locale-independent validator, exposed on Catalog for
// callers holding one.
func (c *Catalog) ValidateField(value string, name FieldName) bool {
	return ValidateField(value, name)
}

// Invalid lists the fields of f that fail ValidateField, in wire order.
func (f Fields) Invalid() []FieldName {
	var bad []FieldName
	for _, name := range fieldOrder {
		if !ValidateField(f.Get(name), name) {
			bad = append(bad, name)
		}
	}
	return bad
}
