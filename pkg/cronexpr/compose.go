package cronexpr

import "strings"

// DefaultExpression is the canonical form of DefaultFields: every day at
// midnight, weekday unspecified.
const DefaultExpression = "0 0 0 * * ?"

// Fields holds the raw text of each position. An empty Year means the same
// as "*".
type Fields struct {
	Second  string `json:"second" yaml:"second"`
	Minute  string `json:"minute" yaml:"minute"`
	Hour    string `json:"hour" yaml:"hour"`
	Day     string `json:"day" yaml:"day"`
	Month   string `json:"month" yaml:"month"`
	Weekday string `json:"weekday" yaml:"weekday"`
	Year    string `json:"year,omitempty" yaml:"year,omitempty"`
}

var fieldDefaults = Fields{
	Second:  "0",
	Minute:  "0",
	Hour:    "0",
	Day:     "*",
	Month:   "*",
	Weekday: "?",
	Year:    "*",
}

// DefaultFields returns the field set of DefaultExpression.
func DefaultFields() Fields { return fieldDefaults }

// Get returns the value of name, or "" for an unknown name.
func (f Fields) Get(name FieldName) string {
	switch name {
	case FieldSecond:
		return f.Second
	case FieldMinute:
		return f.Minute
	case FieldHour:
		return f.Hour
	case FieldDay:
		return f.Day
	case FieldMonth:
		return f.Month
	case FieldWeekday:
		return f.Weekday
	case FieldYear:
		return f.Year
	}
	return ""
}

func (f *Fields) set(name FieldName, value string) bool {
	switch name {
	case FieldSecond:
		f.Second = value
	case FieldMinute:
		f.Minute = value
	case FieldHour:
		f.Hour = value
	case FieldDay:
		f.Day = value
	case FieldMonth:
		f.Month = value
	case FieldWeekday:
		f.Weekday = value
	case FieldYear:
		f.Year = value
	default:
		return false
	}
	return true
}

// HasYear reports whether the year field restricts anything.
func (f Fields) HasYear() bool { return f.Year != "" && f.Year != "*" }

// Compose joins the fields into the canonical expression. The year is
// appended only when HasYear is true, so the result always has 6 or 7
// tokens.
func Compose(f Fields) string {
	parts := []string{f.Second, f.Minute, f.Hour, f.Day, f.Month, f.Weekday}
	if f.HasYear() {
		parts = append(parts, f.Year)
	}
	return strings.Join(parts, " ")
}

// Decompose splits expr back into fields. Tokens are separated by single
// spaces; an empty token takes its field's default. Fewer than six tokens
// yields ok == false and the zero Fields, which callers treat as "leave
// the current fields alone". Tokens after the seventh are ignored.
func Decompose(expr string) (f Fields, ok bool) {
	tokens := strings.Split(strings.TrimSpace(expr), " ")
	if len(tokens) < 6 {
		return Fields{}, false
	}
	for i, name := range fieldOrder {
		v := ""
		if i < len(tokens) {
			v = tokens[i]
		}
		if v == "" {
			v = fieldDefaults.Get(name)
		}
		f.set(name, v)
	}
	return f, true
}

// Config is the editable field set behind a schedule form. Expression is
// derived and always equals Compose(Fields); mutate through SetField and
// SetExpression to keep it so. A Config is owned by one caller and is not
// safe for concurrent mutation.
type Config struct {
	Fields
	Expression string `json:"cronExpression" yaml:"cron_expression"`
}

// NewConfig returns a Config holding DefaultFields.
func NewConfig() *Config {
	c := &Config{Fields: DefaultFields()}
	c.Expression = Compose(c.Fields)
	return c
}

// Field returns the current value of name.
func (c *Config) Field(name FieldName) string { return c.Fields.Get(name) }

// SetField stores value and regenerates Expression. The value is not
// validated; check ValidateField first when the input is user text.
func (c *Config) SetField(name FieldName, value string) error {
	if !c.Fields.set(name, value) {
		return &UnknownFieldError{Name: string(name)}
	}
	c.Expression = Compose(c.Fields)
	return nil
}

// SetExpression replaces the fields with the decomposition of expr. It
// returns false and changes nothing when expr has fewer than six tokens.
func (c *Config) SetExpression(expr string) bool {
	f, ok := Decompose(expr)
	if !ok {
		return false
	}
	c.Fields = f
	c.Expression = Compose(f)
	return true
}
