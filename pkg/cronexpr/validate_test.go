package cronexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFieldPermissive(t *testing.T) {
	for _, name := range FieldNames() {
		for _, v := range []string{"", "*", "?"} {
			assert.True(t, ValidateField(v, name), "%q on %s", v, name)
		}
	}
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		value string
		field FieldName
		want  bool
	}{
		{"hour upper bound", "23", FieldHour, true},
		{"hour out of range", "24", FieldHour, false},
		{"letters", "abc", FieldMinute, false},
		{"range", "9-17", FieldHour, true},
		{"range out of bounds", "9-24", FieldHour, false},
		{"reversed range is not rejected", "17-9", FieldHour, true},
		{"step", "*/15", FieldMinute, true},
		{"step divisor checked against range", "*/200", FieldHour, false},
		{"step divisor above hour max", "*/30", FieldHour, false},
		{"step on year fails range check", "*/5", FieldYear, false},
		{"list", "0,15,30,45", FieldMinute, true},
		{"list out of range", "0,60", FieldSecond, false},
		{"compound list", "1-5,10,20-25", FieldDay, true},
		{"day zero", "0", FieldDay, false},
		{"month thirteen", "13", FieldMonth, false},
		{"weekday seven is Sunday", "7", FieldWeekday, true},
		{"weekday eight", "8", FieldWeekday, false},
		{"year in range", "2025", FieldYear, true},
		{"year before epoch", "1969", FieldYear, false},
		{"range step not supported", "1-30/5", FieldMinute, false},
		{"negative", "-1", FieldSecond, false},
		{"trailing comma", "1,", FieldSecond, false},
		{"spaces", "1, 2", FieldSecond, false},
		{"L is not supported", "L", FieldDay, false},
		{"unknown field", "1", FieldName("week"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(tt.value, tt.field))
		})
	}
}

func TestValidateDoesNotEnforceDayWeekdayExclusion(t *testing.T) {
	f := Fields{Second: "0", Minute: "0", Hour: "9", Day: "15", Month: "*", Weekday: "1-5"}
	assert.Empty(t, f.Invalid())
}

func TestFieldsInvalid(t *testing.T) {
	f := DefaultFields()
	f.Hour = "24"
	f.Year = "abc"
	assert.Equal(t, []FieldName{FieldHour, FieldYear}, f.Invalid())
}
