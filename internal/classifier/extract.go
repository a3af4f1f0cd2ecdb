package classifier

import (
	"regexp"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
)

// Entity extraction patterns. Matches are collected in first-occurrence order
// and never deduplicated; downstream consumers decide what to keep.
var (
	phoneRe = regexp.MustCompile(`(\+\d{1,3}[\s.-]?)?(\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{3,4}`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	urlRe   = regexp.MustCompile(`https?://[^\s<>"]+|www\.[^\s<>"]+`)
	dateRe  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	timeRe  = regexp.MustCompile(`\b\d{1,2}:[0-5]\d\s?(?i:[AP]M)\b|\b(?:[01]?\d|2[0-3]):[0-5]\d\b`)
	priceRe = regexp.MustCompile(`[$€£]\s?\d+(?:[.,]\d{1,2})?|(?i:\b\d+(?:[.,]\d{1,2})?\s?(?:dollars|usd|euros|pesos)\b)`)
)

// ExtractEntities pulls phone numbers, emails, URLs, calendar dates, times
// and currency amounts out of free message text.
func ExtractEntities(text string) core.ExtractedInfo {
	return core.ExtractedInfo{
		PhoneNumbers: findAll(phoneRe, text),
		Emails:       findAll(emailRe, text),
		URLs:         findAll(urlRe, text),
		Dates:        findAll(dateRe, text),
		Times:        findAll(timeRe, text),
		Prices:       findAll(priceRe, text),
	}
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
