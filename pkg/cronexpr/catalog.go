package cronexpr

import (
	"fmt"
	"strings"
)

// FieldName identifies one position of a cron expression.
type FieldName string

const (
	FieldSecond  FieldName = "second"
	FieldMinute  FieldName = "minute"
	FieldHour    FieldName = "hour"
	FieldDay     FieldName = "day"
	FieldMonth   FieldName = "month"
	FieldWeekday FieldName = "weekday"
	FieldYear    FieldName = "year"
)

var fieldOrder = []FieldName{
	FieldSecond, FieldMinute, FieldHour, FieldDay, FieldMonth, FieldWeekday, FieldYear,
}

// FieldNames returns every field name in wire order.
func FieldNames() []FieldName {
	out := make([]FieldName, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// ParseFieldName maps user text (case-insensitive) to a FieldName.
func ParseFieldName(s string) (FieldName, error) {
	name := FieldName(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldRanges[name]; !ok {
		return "", &UnknownFieldError{Name: s}
	}
	return name, nil
}

// UnknownFieldError is returned when a field name is not one of the seven
// recognized names. It always indicates a caller bug, never bad user input
// inside a field.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown cron field %q", e.Name)
}

// Range is an inclusive numeric domain.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// FieldSpec is the static metadata of one field.
type FieldSpec struct {
	Name     FieldName `json:"name" yaml:"name"`
	Label    string    `json:"label" yaml:"label"`
	Range    Range     `json:"range" yaml:"range"`
	Examples []string  `json:"examples" yaml:"examples"`
	// WeekdayNames is set for the weekday field only, indexed 0 (Sunday)
	// through 6 (Saturday).
	WeekdayNames []string `json:"weekdayNames,omitempty" yaml:"weekday_names,omitempty"`
}

// Weekday 0 and 7 both mean Sunday.
var fieldRanges = map[FieldName]Range{
	FieldSecond:  {0, 59},
	FieldMinute:  {0, 59},
	FieldHour:    {0, 23},
	FieldDay:     {1, 31},
	FieldMonth:   {1, 12},
	FieldWeekday: {0, 7},
	FieldYear:    {1970, 2099},
}

var fieldExamples = map[FieldName][]string{
	FieldSecond:  {"0", "*/5", "0-30", "0,15,30,45"},
	FieldMinute:  {"0", "*/10", "0-29", "0,30"},
	FieldHour:    {"0", "9-17", "*/2", "8,12,18"},
	FieldDay:     {"1", "1-15", "*/3", "1,15"},
	FieldMonth:   {"1", "1-6", "*/3", "1,4,7,10"},
	FieldWeekday: {"1", "1-5", "0,6", "?"},
	FieldYear:    {"2025", "2025-2030", "2025,2027"},
}

// Catalog serves field metadata, picker options and descriptions in one
// locale. A Catalog is immutable and safe for concurrent use.
type Catalog struct {
	locale Locale
	text   *localeText
}

// NewCatalog returns the catalog for locale.
func NewCatalog(locale Locale) (*Catalog, error) {
	text, ok := locales[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	return &Catalog{locale: locale, text: text}, nil
}

var defaultCatalog = mustCatalog(DefaultLocale)

func mustCatalog(locale Locale) *Catalog {
	c, err := NewCatalog(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the catalog for DefaultLocale.
func DefaultCatalog() *Catalog { return defaultCatalog }

// Locale returns the catalog's locale.
func (c *Catalog) Locale() Locale { return c.locale }

// Spec returns the metadata for name.
func (c *Catalog) Spec(name FieldName) (FieldSpec, error) {
	r, ok := fieldRanges[name]
	if !ok {
		return FieldSpec{}, &UnknownFieldError{Name: string(name)}
	}
	spec := FieldSpec{
		Name:     name,
		Label:    c.text.fieldLabels[name],
		Range:    r,
		Examples: append([]string(nil), fieldExamples[name]...),
	}
	if name == FieldWeekday {
		spec.WeekdayNames = append([]string(nil), c.text.weekdayNames[:7]...)
	}
	return spec, nil
}

// Specs returns the metadata of all seven fields in wire order.
func (c *Catalog) Specs() []FieldSpec {
	specs := make([]FieldSpec, 0, len(fieldOrder))
	for _, name := range fieldOrder {
		spec, _ := c.Spec(name)
		specs = append(specs, spec)
	}
	return specs
}

// Spec returns the metadata for name from the default catalog.
func Spec(name FieldName) (FieldSpec, error) { return defaultCatalog.Spec(name) }

// RangeOf returns the numeric domain of name.
func RangeOf(name FieldName) (Range, bool) {
	r, ok := fieldRanges[name]
	return r, ok
}
