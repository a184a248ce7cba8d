package extraction

import (
	"smd/internal/models"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

// metricFields is the closed field set of a PlatformMetrics record in the
// extraction schema.
var metricFields = map[string]struct{}{
	"followers":       {},
	"engagement_rate": {},
	"reach":           {},
	"posts":           {},
}

// ParseUpdate turns the raw model response into a validated partial
// update. The service is untrusted: the text may be fenced, may not be
// JSON at all, or may carry a hostile shape. Anything that is not a clean
// numeric payload for known platforms is discarded whole, so a malformed
// response never becomes a partially applied update. Returns nil when
// there is nothing usable.
func ParseUpdate(raw string) *models.PartialUpdate {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil
	}

	var payload struct {
		Platforms map[string]map[string]any `json:"platforms"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil
	}
	if payload.Platforms == nil {
		return nil
	}

	update := &models.PartialUpdate{Platforms: make(map[models.Platform]models.PlatformMetrics)}
	for name, fields := range payload.Platforms {
		platform := models.Platform(strings.ToLower(name))
		if !models.KnownPlatform(platform) {
			continue
		}

		var m models.PlatformMetrics
		for field, value := range fields {
			if _, ok := metricFields[field]; !ok {
				continue
			}
			num, ok := value.(float64)
			if !ok {
				// Non-numeric field: hostile shape, reject everything.
				return nil
			}
			switch field {
			case "followers":
				m.Followers = num
			case "engagement_rate":
				m.EngagementRate = num
			case "reach":
				m.Reach = num
			case "posts":
				m.Posts = num
			}
		}

		if v := validate.Struct(&m); !v.Validate() {
			return nil
		}
		update.Platforms[platform] = m
	}

	if len(update.Platforms) == 0 {
		return nil
	}
	return update
}

// stripFences removes Markdown code-fence markers the model tends to wrap
// its JSON in.
func stripFences(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
