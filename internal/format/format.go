// Package format renders a matched forecast sample into the user-facing
// Russian summary block.
package format

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pogodabot/weather-query-service/internal/models"
)

// ErrMissingFields is returned when the sample lacks the fields the summary
// needs; malformed upstream data is surfaced, not papered over.
var ErrMissingFields = errors.New("forecast sample is missing required fields")

// conditionText maps provider weather classifications to a Russian
// description with an icon. Unmapped codes fall back to the provider's
// free-text description.
var conditionText = map[string]string{
	"Clear":        "Ясно ☀",
	"Clouds":       "Облачно ☁",
	"Rain":         "Дождь ☔",
	"Drizzle":      "Дождь ☔",
	"Thunderstorm": "Гроза ⚡",
	"Snow":         "Снег \U0001F328",
	"Mist":         "Туман \U0001F32B",
}

const timestampLayout = "02-01-2006 15:04:05"

// Summary renders the forecast sample for the given display city name.
// Pure: same sample and city always produce the same text.
func Summary(sample models.ForecastSample, city string) (string, error) {
	if sample.Timestamp.IsZero() {
		return "", fmt.Errorf("%w: timestamp", ErrMissingFields)
	}
	if sample.Main == "" && sample.Description == "" {
		return "", fmt.Errorf("%w: weather classification", ErrMissingFields)
	}

	condition, ok := conditionText[sample.Main]
	if !ok {
		condition = sample.Description
	}

	var b strings.Builder
	fmt.Fprintf(&b, "***%s***\n", sample.Timestamp.Format(timestampLayout))
	fmt.Fprintf(&b, "Погода в городе: %s\n", city)
	fmt.Fprintf(&b, "Температура: %.1f°C (ощущается как %.1f°C) %s\n", sample.TempC, sample.FeelsLikeC, condition)
	fmt.Fprintf(&b, "Влажность: %d %%\n", sample.HumidityPct)
	fmt.Fprintf(&b, "Давление: %d мм. рт. ст.\n", MmHg(sample.PressureHPa))
	fmt.Fprintf(&b, "Ветер: %.1f м/с", sample.WindSpeedMS)
	return b.String(), nil
}

// MmHg converts hectopascals to millimeters of mercury the way the
// original display did: ceiling of hPa/1.333 (1013 -> 760, 1000 -> 751).
func MmHg(pressureHPa float64) int {
	return int(math.Ceil(pressureHPa / 1.333))
}
