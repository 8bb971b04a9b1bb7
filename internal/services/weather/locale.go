package weather

import (
	"fmt"
	"strings"
	"time"
)

// Locale renders day labels and dates. Only the formats the widget shows are
// covered.
type Locale struct {
	code     string
	weekdays [7]string
	months   [12]string
	numeric  func(t time.Time) string
	long     func(t time.Time, months [12]string) string
}

var locales = map[string]Locale{
	"tr": {
		code:     "tr",
		weekdays: [7]string{"Paz", "Pzt", "Sal", "Çar", "Per", "Cum", "Cmt"},
		months: [12]string{"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
			"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"},
		numeric: func(t time.Time) string { return t.Format("02.01") },
		long: func(t time.Time, months [12]string) string {
			return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
		},
	},
	"en": {
		code:     "en",
		weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		numeric: func(t time.Time) string { return fmt.Sprintf("%d/%d", t.Month(), t.Day()) },
		long: func(t time.Time, months [12]string) string {
			return fmt.Sprintf("%s %d, %d", months[t.Month()-1], t.Day(), t.Year())
		},
	},
}

// LocaleFor returns the locale for a language code, defaulting to Turkish.
func LocaleFor(code string) Locale {
	if l, ok := locales[strings.ToLower(code)]; ok {
		return l
	}
	return locales["tr"]
}

func (l Locale) Code() string { return l.code }

func (l Locale) ShortWeekday(t time.Time) string { return l.weekdays[t.Weekday()] }

func (l Locale) NumericDate(t time.Time) string { return l.numeric(t) }

func (l Locale) LongDate(t time.Time) string { return l.long(t, l.months) }
