package cronexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSpec(t *testing.T) {
	tests := []struct {
		name  FieldName
		label string
		want  Range
	}{
		{FieldSecond, "秒", Range{0, 59}},
		{FieldMinute, "分钟", Range{0, 59}},
		{FieldHour, "小时", Range{0, 23}},
		{FieldDay, "日", Range{1, 31}},
		{FieldMonth, "月", Range{1, 12}},
		{FieldWeekday, "周", Range{0, 7}},
		{FieldYear, "年", Range{1970, 2099}},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			spec, err := Spec(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, spec.Name)
			assert.Equal(t, tt.label, spec.Label)
			assert.Equal(t, tt.want, spec.Range)
			assert.LessOrEqual(t, spec.Range.Min, spec.Range.Max)
			assert.NotEmpty(t, spec.Examples)
			if tt.name == FieldWeekday {
				assert.Len(t, spec.WeekdayNames, 7)
				assert.Equal(t, "周日", spec.WeekdayNames[0])
			} else {
				assert.Nil(t, spec.WeekdayNames)
			}
		})
	}
}

func TestCatalogSpecUnknownField(t *testing.T) {
	_, err := Spec("quarter")
	require.Error(t, err)

	var unknown *UnknownFieldError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "quarter", unknown.Name)
	assert.Contains(t, err.Error(), "quarter")
}

func TestCatalogSpecReturnsCopies(t *testing.T) {
	spec, err := Spec(FieldWeekday)
	require.NoError(t, err)
	spec.WeekdayNames[0] = "changed"
	spec.Examples[0] = "changed"

	again, err := Spec(FieldWeekday)
	require.NoError(t, err)
	assert.Equal(t, "周日", again.WeekdayNames[0])
	assert.NotEqual(t, "changed", again.Examples[0])
}

func TestCatalogEnglish(t *testing.T) {
	c, err := NewCatalog(LocaleEN)
	require.NoError(t, err)
	assert.Equal(t, LocaleEN, c.Locale())

	spec, err := c.Spec(FieldWeekday)
	require.NoError(t, err)
	assert.Equal(t, "Weekday", spec.Label)
	assert.Equal(t, []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, spec.WeekdayNames)
}

func TestNewCatalogUnknownLocale(t *testing.T) {
	_, err := NewCatalog("fr")
	assert.Error(t, err)
}

func TestSpecsWireOrder(t *testing.T) {
	specs := DefaultCatalog().Specs()
	require.Len(t, specs, 7)
	for i, name := range FieldNames() {
		assert.Equal(t, name, specs[i].Name)
	}
}

func TestParseFieldName(t *testing.T) {
	name, err := ParseFieldName(" Hour ")
	require.NoError(t, err)
	assert.Equal(t, FieldHour, name)

	_, err = ParseFieldName("dow")
	var unknown *UnknownFieldError
	assert.True(t, errors.As(err, &unknown))
}

func TestParseLocale(t *testing.T) {
	l, err := ParseLocale("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, l)

	l, err = ParseLocale("en")
	require.NoError(t, err)
	assert.Equal(t, LocaleEN, l)

	_, err = ParseLocale("de")
	assert.Error(t, err)
}
