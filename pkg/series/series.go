// Package series joins incoming and outgoing kit samples on their
// measured_at timestamp for side-by-side charts.
package series

import (
	"sort"
	"strings"
	"time"

	"p9e.in/riverai/models"
)

// CombinedRow holds both sides of the plant at one timestamp. A nil field
// means that side reported nothing parseable at this instant.
type CombinedRow struct {
	MeasuredAt time.Time `json:"measured_at"`

	PHIncoming              *float64 `json:"phIncoming,omitempty"`
	PHOutgoing              *float64 `json:"phOutgoing,omitempty"`
	TurbidityIncoming       *float64 `json:"turbidityIncoming,omitempty"`
	TurbidityOutgoing       *float64 `json:"turbidityOutgoing,omitempty"`
	TemperatureIncoming     *float64 `json:"temperatureIncoming,omitempty"`
	TemperatureOutgoing     *float64 `json:"temperatureOutgoing,omitempty"`
	TDSIncoming             *float64 `json:"tdsIncoming,omitempty"`
	TDSOutgoing             *float64 `json:"tdsOutgoing,omitempty"`
	DissolvedOxygenIncoming *float64 `json:"dissolved_oxygenIncoming,omitempty"`
	DissolvedOxygenOutgoing *float64 `json:"dissolved_oxygenOutgoing,omitempty"`
}

// Value returns the field for a parameter key and side.
func (r *CombinedRow) Value(param string, side models.KitType) *float64 {
	if p := r.field(param, side); p != nil {
		return *p
	}
	return nil
}

func (r *CombinedRow) field(param string, side models.KitType) **float64 {
	in := side == models.KitIncoming
	switch param {
	case models.ParamPH:
		if in {
			return &r.PHIncoming
		}
		return &r.PHOutgoing
	case models.ParamTurbidity:
		if in {
			return &r.TurbidityIncoming
		}
		return &r.TurbidityOutgoing
	case models.ParamTemperature:
		if in {
			return &r.TemperatureIncoming
		}
		return &r.TemperatureOutgoing
	case models.ParamTDS:
		if in {
			return &r.TDSIncoming
		}
		return &r.TDSOutgoing
	case models.ParamDissolvedOxygen:
		if in {
			return &r.DissolvedOxygenIncoming
		}
		return &r.DissolvedOxygenOutgoing
	}
	return nil
}

// Merge is a full outer join of the two series on exact measured_at. Rows
// with only one side are kept. The result is sorted by time.
func Merge(incoming, outgoing []models.WaterQualitySample) []CombinedRow {
	rows := make(map[int64]*CombinedRow, len(incoming)+len(outgoing))

	apply := func(samples []models.WaterQualitySample, side models.KitType) {
		for i := range samples {
			s := &samples[i]
			key := s.MeasuredAt.UnixNano()
			row, ok := rows[key]
			if !ok {
				row = &CombinedRow{MeasuredAt: s.MeasuredAt.UTC()}
				rows[key] = row
			}
			for _, param := range models.Parameters {
				reading, _ := s.Reading(param)
				v, ok := reading.Float()
				if !ok {
					continue
				}
				*row.field(param, side) = &v
			}
		}
	}
	apply(incoming, models.KitIncoming)
	apply(outgoing, models.KitOutgoing)

	out := make([]CombinedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MeasuredAt.Before(out[j].MeasuredAt)
	})
	return out
}

// Split partitions samples by kit type, case-insensitively. Samples with an
// unknown kit type are dropped.
func Split(samples []models.WaterQualitySample) (incoming, outgoing []models.WaterQualitySample) {
	for _, s := range samples {
		switch models.KitType(strings.ToLower(string(s.KitType))) {
		case models.KitIncoming:
			incoming = append(incoming, s)
		case models.KitOutgoing:
			outgoing = append(outgoing, s)
		}
	}
	return incoming, outgoing
}
