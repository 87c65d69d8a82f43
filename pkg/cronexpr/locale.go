package cronexpr

import "fmt"

// Locale selects the human language of labels and descriptions.
type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"

	DefaultLocale = LocaleZH
)

// Locales lists the supported locales.
func Locales() []Locale { return []Locale{LocaleZH, LocaleEN} }

type localeText struct {
	fieldLabels map[FieldName]string
	// weekdayNames carries an eighth entry equal to the first so that
	// weekday 7 resolves to Sunday.
	weekdayNames [8]string

	anyLabel         string
	unspecifiedLabel string
	stepUnits        map[FieldName]string
	stepLabel        func(step int, unit string) string
	presetLabels     map[string]string

	hourClause   func(v string) string
	minuteClause func(v string) string
	secondClause func(v string) string
	dayClause    func(v string) string
	monthClause  func(v string) string
	weekdayRaw   func(v string) string
	yearClause   func(v string) string
	workdays     string
	weekend      string
	everySecond  string
}

var locales = map[Locale]*localeText{
	LocaleZH: {
		fieldLabels: map[FieldName]string{
			FieldSecond:  "秒",
			FieldMinute:  "分钟",
			FieldHour:    "小时",
			FieldDay:     "日",
			FieldMonth:   "月",
			FieldWeekday: "周",
			FieldYear:    "年",
		},
		weekdayNames:     [8]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六", "周日"},
		anyLabel:         "任意",
		unspecifiedLabel: "不指定",
		stepUnits: map[FieldName]string{
			FieldSecond:  "秒",
			FieldMinute:  "分钟",
			FieldHour:    "小时",
			FieldDay:     "天",
			FieldMonth:   "个月",
			FieldWeekday: "天",
		},
		stepLabel: func(step int, unit string) string { return fmt.Sprintf("*/%d (每%d%s)", step, step, unit) },
		presetLabels: map[string]string{
			"hour:9-17":   "工作时间",
			"hour:0-6":    "凌晨",
			"weekday:1-5": "工作日",
			"weekday:0,6": "周末",
			"day:1-15":    "上半月",
			"day:16-31":   "下半月",
		},
		hourClause:   func(v string) string { return v + "时" },
		minuteClause: func(v string) string { return v + "分" },
		secondClause: func(v string) string { return v + "秒" },
		dayClause:    func(v string) string { return v + "日" },
		monthClause:  func(v string) string { return v + "月" },
		weekdayRaw:   func(v string) string { return "周" + v },
		yearClause:   func(v string) string { return v + "年" },
		workdays:     "工作日",
		weekend:      "周末",
		everySecond:  "每秒执行",
	},
	LocaleEN: {
		fieldLabels: map[FieldName]string{
			FieldSecond:  "Second",
			FieldMinute:  "Minute",
			FieldHour:    "Hour",
			FieldDay:     "Day",
			FieldMonth:   "Month",
			FieldWeekday: "Weekday",
			FieldYear:    "Year",
		},
		weekdayNames:     [8]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		anyLabel:         "any",
		unspecifiedLabel: "unspecified",
		stepUnits: map[FieldName]string{
			FieldSecond:  "seconds",
			FieldMinute:  "minutes",
			FieldHour:    "hours",
			FieldDay:     "days",
			FieldMonth:   "months",
			FieldWeekday: "days",
		},
		stepLabel: func(step int, unit string) string { return fmt.Sprintf("*/%d (every %d %s)", step, step, unit) },
		presetLabels: map[string]string{
			"hour:9-17":   "business hours",
			"hour:0-6":    "early morning",
			"weekday:1-5": "workdays",
			"weekday:0,6": "weekend",
			"day:1-15":    "first half of month",
			"day:16-31":   "second half of month",
		},
		hourClause:   func(v string) string { return v + " hour" },
		minuteClause: func(v string) string { return v + " minute" },
		secondClause: func(v string) string { return v + " second" },
		dayClause:    func(v string) string { return v + " day-of-month" },
		monthClause:  func(v string) string { return v + " month" },
		weekdayRaw:   func(v string) string { return "weekday " + v },
		yearClause:   func(v string) string { return v + " year" },
		workdays:     "workdays",
		weekend:      "weekend",
		everySecond:  "runs every second",
	},
}

// ParseLocale maps user text to a supported Locale. Empty text yields
// DefaultLocale.
func ParseLocale(s string) (Locale, error) {
	if s == "" {
		return DefaultLocale, nil
	}
	l := Locale(s)
	if _, ok := locales[l]; !ok {
		return "", fmt.Errorf("unsupported locale %q", s)
	}
	return l, nil
}
