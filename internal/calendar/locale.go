package calendar

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Locale selects one of the two display languages of the board.
// The zero value renders German.
type Locale struct {
	tag language.Tag
}

var (
	German = Locale{tag: language.German}
	Arabic = Locale{tag: language.Arabic}
)

var localeMatcher = language.NewMatcher([]language.Tag{
	language.German, // first entry is the fallback
	language.Arabic,
})

// ParseLocale resolves an Accept-Language style string to one of the
// supported locales, falling back to German.
func ParseLocale(s string) Locale {
	_, idx := language.MatchStrings(localeMatcher, s)
	if idx == 1 {
		return Arabic
	}
	return German
}

func (l Locale) isArabic() bool {
	return l.tag == language.Arabic
}

// Fixed name tables. Only two locales exist and the window is one season,
// so there is no point pulling in a CLDR-backed date formatter.
var (
	weekdaysDE = [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}
	weekdaysAR = [7]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

	monthsDE = [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
	monthsAR = [12]string{"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"}
)

func (l Locale) ramadanName() string {
	if l.isArabic() {
		return "رمضان"
	}
	return "Ramadan"
}

func (l Locale) shabanName() string {
	if l.isArabic() {
		return "شعبان"
	}
	return "Schaban"
}

func (l Locale) eidPhrase() string {
	if l.isArabic() {
		return "عيد الفطر"
	}
	return "Eid al-Fitr"
}

// FormatDisplayDate renders the Eid sentinel as the localized Eid phrase and
// any other date as a long date (weekday, day, month, year). Arabic output
// keeps Western digits, matching the board's right-to-left layout.
func FormatDisplayDate(date string, loc Locale) string {
	if date == eidSentinel {
		return loc.eidPhrase()
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	if loc.isArabic() {
		return fmt.Sprintf("%s، %d %s %d",
			weekdaysAR[d.Weekday()], d.Day(), monthsAR[d.Month()-1], d.Year())
	}
	return fmt.Sprintf("%s, %d. %s %d",
		weekdaysDE[d.Weekday()], d.Day(), monthsDE[d.Month()-1], d.Year())
}

// FormatWithHijri renders the Gregorian long date with the approximate Hijri
// label on a second line. The Eid sentinel and dates outside the Hijri window
// fall back to the plain display date.
func FormatWithHijri(date string, loc Locale) string {
	gregorian := FormatDisplayDate(date, loc)
	if date == eidSentinel {
		return gregorian
	}
	hijri, err := HijriLabel(date, loc)
	if err != nil {
		return gregorian
	}
	if loc.isArabic() {
		return fmt.Sprintf("%s\n%d %s %d", gregorian, hijri.Day, hijri.Month, hijri.Year)
	}
	return fmt.Sprintf("%s\n%d. %s %d", gregorian, hijri.Day, hijri.Month, hijri.Year)
}
