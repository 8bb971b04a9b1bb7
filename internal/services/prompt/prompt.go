package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// CityscapeTemplate is the default generation prompt. The bracketed token on
// the last line is replaced with the city name.
const CityscapeTemplate = `Present a clear, 45° top-down view of a vertical (9:16) isometric miniature 3D cartoon scene, highlighting iconic landmarks centered in the composition to showcase precise and delicate modeling.

The scene features soft, refined textures with realistic PBR materials and gentle, lifelike lighting and shadow effects. Weather elements are creatively integrated into the urban architecture, establishing a dynamic interaction between the city's landscape and atmospheric conditions, creating an immersive weather ambiance.

Use a clean, unified composition with minimalistic aesthetics and a soft, solid-colored background that highlights the main content. The overall visual style is fresh and soothing.

IMPORTANT: Do NOT add any text, weather icons, dates, or temperature information to the image. Keep the composition clean and focused on the cityscape. Leave the upper-center area slightly more open for external overlay placement, but maintain visual balance.

Please retrieve current weather conditions for the specified city before rendering to ensure weather ambiance matches current conditions.

City name:【CITY_PLACEHOLDER】`

// WeatherContext is the weather summary injected into a prompt.
type WeatherContext struct {
	City      string
	Condition string
	Temp      int
	Date      string
}

var cityToken = regexp.MustCompile(`【[^】]*】`)

// BuildPrompt substitutes every 【...】 token with the city and appends the
// weather clause. It never fails.
func BuildPrompt(template string, wc WeatherContext) string {
	var sb strings.Builder

	sb.WriteString(cityToken.ReplaceAllLiteralString(template, "【"+wc.City+"】"))
	sb.WriteString(weatherClause(wc))

	return sb.String()
}

func weatherClause(wc WeatherContext) string {
	return fmt.Sprintf(
		"\nCurrent Weather Conditions: %s, Temperature: %d°C, Date: %s. Ensure these are reflected in the scene.",
		wc.Condition, wc.Temp, wc.Date,
	)
}
