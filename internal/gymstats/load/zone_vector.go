package load

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ZoneVector maps zone ids to loads and keeps the order in which zones were first added.
// The zero value is ready to use.
type ZoneVector struct {
	keys   []string
	values map[string]float64
}

func NewZoneVector() ZoneVector {
	return ZoneVector{
		values: map[string]float64{},
	}
}

// Add adds delta to the zone's running total, inserting the zone if it is new.
func (v *ZoneVector) Add(zone string, delta float64) {
	if v.values == nil {
		v.values = map[string]float64{}
	}
	if _, ok := v.values[zone]; !ok {
		v.keys = append(v.keys, zone)
	}
	v.values[zone] += delta
}

// Set overwrites the zone's value, inserting the zone if it is new.
func (v *ZoneVector) Set(zone string, value float64) {
	if v.values == nil {
		v.values = map[string]float64{}
	}
	if _, ok := v.values[zone]; !ok {
		v.keys = append(v.keys, zone)
	}
	v.values[zone] = value
}

func (v ZoneVector) Get(zone string) (float64, bool) {
	value, ok := v.values[zone]
	return value, ok
}

func (v ZoneVector) Len() int {
	return len(v.keys)
}

// Keys returns the zones in insertion order.
func (v ZoneVector) Keys() []string {
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Each calls fn for every zone in insertion order.
func (v ZoneVector) Each(fn func(zone string, value float64)) {
	for _, k := range v.keys {
		fn(k, v.values[k])
	}
}

// Max returns the largest value, or 0 for an empty vector.
func (v ZoneVector) Max() float64 {
	maxValue := 0.0
	for i, k := range v.keys {
		if i == 0 || v.values[k] > maxValue {
			maxValue = v.values[k]
		}
	}
	return maxValue
}

// MostLoaded returns the zone with the highest value. On exact ties the zone
// inserted first wins.
func (v ZoneVector) MostLoaded() (string, float64, bool) {
	if len(v.keys) == 0 {
		return "", 0, false
	}
	bestZone, bestValue := v.keys[0], v.values[v.keys[0]]
	for _, k := range v.keys[1:] {
		if v.values[k] > bestValue {
			bestZone, bestValue = k, v.values[k]
		}
	}
	return bestZone, bestValue, true
}

func (v ZoneVector) Clone() ZoneVector {
	c := ZoneVector{
		keys:   make([]string, len(v.keys)),
		values: make(map[string]float64, len(v.values)),
	}
	copy(c.keys, v.keys)
	for k, val := range v.values {
		c.values[k] = val
	}
	return c
}

// Map returns a plain map copy, losing the order.
func (v ZoneVector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.values))
	for k, val := range v.values {
		m[k] = val
	}
	return m
}

// MarshalJSON writes a flat object with keys in insertion order.
func (v ZoneVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range v.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJson, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		valJson, err := json.Marshal(v.values[k])
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", k, err)
		}
		buf.Write(keyJson)
		buf.WriteByte(':')
		buf.Write(valJson)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat object, keeping the key order of the document.
func (v *ZoneVector) UnmarshalJSON(data []byte) error {
	*v = NewZoneVector()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("zone vector: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		zone, ok := tok.(string)
		if !ok {
			return fmt.Errorf("zone vector: expected string key, got %v", tok)
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("zone vector, zone %s: %w", zone, err)
		}
		v.Set(zone, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
