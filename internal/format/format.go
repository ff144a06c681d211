package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first letter of every space separated word and lower-cases the
// rest, using the casing rules of lang.
// Example: Capitalize("big BEAUTIFUL women", "en") => "Big Beautiful Women"
func Capitalize(text, lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	// Casers keep state; one per call keeps this safe for concurrent handlers.
	caser := cases.Title(tag)
	words := strings.Split(text, " ")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// FillYear replaces the {year} placeholder used in localized titles.
func FillYear(s string, now time.Time) string {
	if !strings.Contains(s, "{year}") {
		return s
	}
	return strings.ReplaceAll(s, "{year}", strconv.Itoa(now.Year()))
}

// FmtCount formats n with thousands separators.
// Example: FmtCount(1200) => "1,200"
func FmtCount(n int64) string {
	return thousandSep(n)
}

// FmtPerformers renders a parsed performer count for cards, keeping the "+" suffix of the
// source value. Zero counts render as an empty string.
func FmtPerformers(n int64, raw string) string {
	if n <= 0 {
		return ""
	}
	out := thousandSep(n)
	if strings.HasSuffix(strings.TrimSpace(raw), "+") {
		out += "+"
	}
	return out
}

// FmtRating renders a rating with at most one decimal.
func FmtRating(r float64) string {
	return strconv.FormatFloat(float64(int64(r*10+0.5))/10, 'f', -1, 64)
}

func thousandSep(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
