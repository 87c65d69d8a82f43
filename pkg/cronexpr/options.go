package cronexpr

import "strconv"

// Option is one entry of a field picker.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

var sampleStride = map[FieldName]int{
	FieldSecond: 5,
	FieldMinute: 5,
	FieldHour:   5,
	FieldDay:    3,
	FieldMonth:  3,
	FieldYear:   5,
}

var stepValues = []int{2, 5, 10}

var rangePresets = map[FieldName][]string{
	FieldHour:    {"9-17", "0-6"},
	FieldWeekday: {"1-5", "0,6"},
	FieldDay:     {"1-15", "16-31"},
}

// Options returns the picker suggestions for name in a fixed order:
// wildcard, unspecified, discrete values, steps, then range presets.
//
// "?" is offered for every field even though only day and weekday accept
// it semantically. Pickers rely on it sitting at index 1.
func (c *Catalog) Options(name FieldName) ([]Option, error) {
	r, ok := fieldRanges[name]
	if !ok {
		return nil, &UnknownFieldError{Name: string(name)}
	}

	opts := []Option{
		{Label: c.text.anyLabel, Value: "*"},
		{Label: c.text.unspecifiedLabel, Value: "?"},
	}

	if name == FieldWeekday {
		for i, n := range c.text.weekdayNames[:7] {
			v := strconv.Itoa(i)
			opts = append(opts, Option{Label: v + " (" + n + ")", Value: v})
		}
		opts = append(opts, Option{Label: "7 (" + c.text.weekdayNames[7] + ")", Value: "7"})
	} else {
		for v := r.Min; v <= r.Max; v += sampleStride[name] {
			s := strconv.Itoa(v)
			opts = append(opts, Option{Label: s, Value: s})
		}
	}

	if name != FieldYear {
		unit := c.text.stepUnits[name]
		for _, step := range stepValues {
			opts = append(opts, Option{
				Label: c.text.stepLabel(step, unit),
				Value: "*/" + strconv.Itoa(step),
			})
		}
	}

	for _, preset := range rangePresets[name] {
		opts = append(opts, Option{
			Label: preset + " (" + c.text.presetLabels[string(name)+":"+preset] + ")",
			Value: preset,
		})
	}

	return opts, nil
}

// Options returns the picker suggestions for name from the default catalog.
func Options(name FieldName) ([]Option, error) { return defaultCatalog.Options(name) }
