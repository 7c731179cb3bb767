package seo

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	freeFeeRE = regexp.MustCompile(`\b(?:free|no charge|no cost|no fee|complimentary|none|n/a)\b`)

	// Most explicit currency form first, bare number last.
	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d+)?)`),
		regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*dollars`),
		regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*usd`),
		regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*\$`),
		regexp.MustCompile(`\b(\d[\d,]*(?:\.\d+)?)\b`),
	}
)

// NormalizePrice parses free-form fee text into a dollar amount. Free
// indicators, empty input and unparseable text all come back as 0.
func NormalizePrice(feeText string) float64 {
	text := strings.ToLower(strings.TrimSpace(feeText))
	if text == "" || text == "0" {
		return 0
	}
	if freeFeeRE.MatchString(text) {
		return 0
	}
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return v
	}
	return 0
}
