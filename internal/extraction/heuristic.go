package extraction

import "strings"

// metricKeywords gate the extraction call: free text without at least one
// digit and one of these words never reaches the external service.
var metricKeywords = []string{
	"instagram",
	"twitter",
	"tiktok",
	"followers",
	"engagement",
	"reach",
}

func ShouldExtract(text string) bool {
	hasDigit := false
	for _, c := range text {
		if c >= '0' && c <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}

	lowered := strings.ToLower(text)
	for _, kw := range metricKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
