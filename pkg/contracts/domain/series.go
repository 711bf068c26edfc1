package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Series is one value per day. JSON has no NaN or Inf, so non-finite
// values are written as null and null decodes back to NaN.
type Series []float64

// MarshalJSON implements json.Marshaler
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			b.WriteString("null")
			continue
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}

// Grid is a patients × days table in JSON, rows encoded as Series
type Grid [][]float64

// MarshalJSON implements json.Marshaler
func (g Grid) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}
	rows := make([]Series, len(g))
	for i, r := range g {
		rows[i] = Series(r)
	}
	return json.Marshal(rows)
}

// UnmarshalJSON implements json.Unmarshaler
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows []Series
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if rows == nil {
		*g = nil
		return nil
	}
	out := make(Grid, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	*g = out
	return nil
}
