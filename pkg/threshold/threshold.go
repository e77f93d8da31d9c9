// Package threshold decides whether a water quality sample is out of its safe
// range. The rule table is fixed.
package threshold

import (
	"fmt"

	"p9e.in/riverai/models"
)

const (
	PHMin              = 6.5
	PHMax              = 8.5
	TurbidityLimit     = 5.0
	DissolvedOxygenMin = 5.0
)

// Rule is one row of the table. A rule without a check never flags.
type Rule struct {
	Key            string
	DisplayName    string
	Label          string
	SafeRange      string
	AlertParameter string
	check          func(v float64) (bound float64, crossed bool)
}

// Monitored reports whether the rule can produce a breach.
func (r Rule) Monitored() bool {
	return r.check != nil
}

// ThresholdLabel is the human description, e.g. "Safe Range 6.5–8.5".
func (r Rule) ThresholdLabel() string {
	return r.Label + " " + r.SafeRange
}

var rules = []Rule{
	{
		Key:            models.ParamPH,
		DisplayName:    "pH Level",
		Label:          "Safe Range",
		SafeRange:      "6.5–8.5",
		AlertParameter: "pH Threshold Crossed",
		check: func(v float64) (float64, bool) {
			switch {
			case v < PHMin:
				return PHMin, true
			case v > PHMax:
				return PHMax, true
			}
			return 0, false
		},
	},
	{
		Key:            models.ParamTurbidity,
		DisplayName:    "Turbidity",
		Label:          "Safe Limit",
		SafeRange:      "<5 NTU",
		AlertParameter: "Turbidity Threshold Crossed",
		check: func(v float64) (float64, bool) {
			return TurbidityLimit, v >= TurbidityLimit
		},
	},
	{
		Key:         models.ParamTemperature,
		DisplayName: "Temperature",
		Label:       "Safe Range",
		SafeRange:   "Not specified",
	},
	{
		Key:         models.ParamTDS,
		DisplayName: "TDS",
		Label:       "Safe Limit",
		SafeRange:   "Not specified",
	},
	{
		Key:            models.ParamDissolvedOxygen,
		DisplayName:    "Dissolved Oxygen",
		Label:          "Safe Minimum",
		SafeRange:      "5 mg/L",
		AlertParameter: "Dissolved Oxygen Threshold Crossed",
		check: func(v float64) (float64, bool) {
			return DissolvedOxygenMin, v < DissolvedOxygenMin
		},
	},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Breach is one parameter found outside its safe range.
type Breach struct {
	ParameterKey   string  `json:"parameter_key"`
	DisplayName    string  `json:"display_name"`
	DetectedValue  float64 `json:"detected_value"`
	ThresholdLabel string  `json:"threshold_label"`
	ThresholdRange string  `json:"threshold_range"`
	ThresholdValue float64 `json:"threshold_value"`
	AlertParameter string  `json:"alert_parameter"`
	Label          string  `json:"label"`
}

// Line renders the breach the way it appears in warning emails:
// "• pH Level – Safe Range: 6.5–8.5, Detected: 9.2".
func (b Breach) Line() string {
	return fmt.Sprintf("• %s – %s: %s, Detected: %s",
		b.DisplayName, b.Label, b.ThresholdRange, models.NewReading(b.DetectedValue))
}

// Evaluate checks every rule against the sample. Readings that do not parse
// as numbers are skipped. A nil sample yields no breaches.
func Evaluate(sample *models.WaterQualitySample) []Breach {
	if sample == nil {
		return nil
	}
	var out []Breach
	for _, r := range rules {
		if r.check == nil {
			continue
		}
		reading, ok := sample.Reading(r.Key)
		if !ok {
			continue
		}
		v, ok := reading.Float()
		if !ok {
			continue
		}
		bound, crossed := r.check(v)
		if !crossed {
			continue
		}
		out = append(out, Breach{
			ParameterKey:   r.Key,
			DisplayName:    r.DisplayName,
			DetectedValue:  v,
			ThresholdLabel: r.ThresholdLabel(),
			ThresholdRange: r.SafeRange,
			ThresholdValue: bound,
			AlertParameter: r.AlertParameter,
			Label:          r.Label,
		})
	}
	return out
}
