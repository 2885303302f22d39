// Package promptstyle augments raw scenario image prompts with cinematic
// position modifiers, a content-derived art style, and a fixed quality suffix
// before they are sent to the image model. Enhancement is pure and
// deterministic: the same prompt at the same position always yields the same
// output.
package promptstyle

import (
	"fmt"
	"strings"
)

// qualitySuffix is appended to every enhanced prompt.
const qualitySuffix = ", highly detailed, professional concept art, 8k resolution, trending on artstation"

// styleRule maps content keywords to an art style. Rules are evaluated in
// order; the first rule with any matching keyword wins.
type styleRule struct {
	keywords []string
	style    string
}

var styleRules = []styleRule{
	{[]string{"space", "alien", "future", "robot"}, "sci-fi digital art, cyberpunk aesthetics, neon lighting"},
	{[]string{"ancient", "medieval", "history", "past"}, "historical realism, period-accurate details, classical art style"},
	{[]string{"nature", "forest", "ocean", "mountain"}, "photorealistic nature photography, natural lighting, environmental art"},
	{[]string{"magic", "fantasy", "dragon", "wizard"}, "fantasy art, magical realism, ethereal lighting"},
}

// defaultStyle is used when no keyword rule matches.
const defaultStyle = "photorealistic, natural lighting, professional photography style"

// Enhance builds the final image model prompt for the image at the given
// position in a sequence of total images. The raw prompt is always preserved
// verbatim at the front of the result.
func Enhance(prompt string, index, total int) string {
	return fmt.Sprintf("%s, %s, %s%s", prompt, positionModifier(index), artStyleFor(prompt), qualitySuffix)
}

// positionModifier returns the shot-style modifier for a gallery position.
// The four-image sequence reads as establishing shot, medium shot, close-up,
// finale; positions beyond that get a generic modifier.
func positionModifier(index int) string {
	switch index {
	case 0:
		return "establishing shot, wide angle, cinematic composition"
	case 1:
		return "medium shot, detailed focus, dramatic lighting"
	case 2:
		return "close-up details, high contrast, dynamic perspective"
	case 3:
		return "epic finale shot, dramatic atmosphere, wide vista"
	default:
		return "high quality, detailed, professional"
	}
}

// artStyleFor picks the art style from content keywords in the raw prompt.
func artStyleFor(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, rule := range styleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.style
			}
		}
	}
	return defaultStyle
}
