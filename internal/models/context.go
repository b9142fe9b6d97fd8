// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package models

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ContextType identifies the kind of a contextual factor.
type ContextType string

// Contextual factor kinds.
const (
	ContextWeather  ContextType = "weather"
	ContextCrowd    ContextType = "crowd"
	ContextTime     ContextType = "time"
	ContextLocation ContextType = "location"
	ContextSeason   ContextType = "season"
)

// ContextPayload is the closed set of per-kind factor payloads. Exactly
// one concrete payload type exists per ContextType; the adjuster
// dispatches on the concrete type.
type ContextPayload interface {
	contextType() ContextType
}

// WeatherPayload carries current weather conditions.
type WeatherPayload struct {
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

func (WeatherPayload) contextType() ContextType { return ContextWeather }

// CrowdPayload carries city-wide crowding information.
type CrowdPayload struct {
	// OverallLevel is the city-wide crowd level; empty when not reported.
	OverallLevel CrowdLevel `json:"overall_crowd_level"`
}

func (CrowdPayload) contextType() ContextType { return ContextCrowd }

// TimePayload carries the local hour of day (0-23).
type TimePayload struct {
	Hour int `json:"hour"`
}

func (TimePayload) contextType() ContextType { return ContextTime }

// LocationPayload carries the user's current coordinate.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (LocationPayload) contextType() ContextType { return ContextLocation }

// SeasonPayload carries the current season.
type SeasonPayload struct {
	Season string `json:"season"`
}

func (SeasonPayload) contextType() ContextType { return ContextSeason }

// ContextualFactor is one situational signal supplied with a request.
// Factors are consumed in list order and never persisted.
//
// A nil Payload marks a malformed factor; the adjuster treats it as a
// no-op rather than failing the request.
type ContextualFactor struct {
	Type        ContextType    `json:"type"`
	Payload     ContextPayload `json:"-"`
	Impact      float64        `json:"impact"`
	Confidence  float64        `json:"confidence"`
	Description string         `json:"description,omitempty"`
}

// rawFactor mirrors the wire shape of a contextual factor, where the
// payload arrives as a loosely typed "value" object.
type rawFactor struct {
	Type        ContextType                `json:"type"`
	Value       map[string]json.RawMessage `json:"value"`
	Impact      float64                    `json:"impact"`
	Confidence  float64                    `json:"confidence"`
	Description string                     `json:"description"`
}

// UnmarshalJSON decodes a factor from its wire shape, converting the
// untyped value object into the structured payload for its kind. Payloads
// with a missing required key decode to nil (a no-op factor) instead of
// returning an error.
func (f *ContextualFactor) UnmarshalJSON(data []byte) error {
	var raw rawFactor
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Type = raw.Type
	f.Impact = raw.Impact
	f.Confidence = raw.Confidence
	f.Description = raw.Description
	f.Payload = decodePayload(raw.Type, raw.Value)
	return nil
}

// MarshalJSON encodes the factor back into its wire shape.
func (f ContextualFactor) MarshalJSON() ([]byte, error) {
	out := struct {
		Type        ContextType    `json:"type"`
		Value       ContextPayload `json:"value,omitempty"`
		Impact      float64        `json:"impact"`
		Confidence  float64        `json:"confidence"`
		Description string         `json:"description,omitempty"`
	}{f.Type, f.Payload, f.Impact, f.Confidence, f.Description}
	return json.Marshal(out)
}

func decodePayload(typ ContextType, value map[string]json.RawMessage) ContextPayload {
	switch typ {
	case ContextWeather:
		return decodeWeather(value)
	case ContextCrowd:
		p := CrowdPayload{}
		if raw, ok := value["overall_crowd_level"]; ok {
			var level string
			if err := json.Unmarshal(raw, &level); err == nil {
				p.OverallLevel = CrowdLevel(level)
			}
		}
		return p
	case ContextTime:
		return decodeTime(value)
	case ContextLocation:
		return decodeLocation(value)
	case ContextSeason:
		p := SeasonPayload{Season: "spring"}
		if raw, ok := value["season"]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				p.Season = strings.ToLower(s)
			}
		}
		return p
	default:
		return nil
	}
}

// decodeWeather applies the reference defaults for absent keys:
// cloudy, 25 degrees, 70% humidity.
func decodeWeather(value map[string]json.RawMessage) ContextPayload {
	p := WeatherPayload{Condition: "cloudy", Temperature: 25, Humidity: 70}
	if raw, ok := value["condition"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			p.Condition = strings.ToLower(s)
		}
	}
	if raw, ok := value["temperature"]; ok {
		var t float64
		if err := json.Unmarshal(raw, &t); err == nil {
			p.Temperature = t
		}
	}
	if raw, ok := value["humidity"]; ok {
		var h float64
		if err := json.Unmarshal(raw, &h); err == nil {
			p.Humidity = h
		}
	}
	return p
}

// decodeTime accepts either an integer hour or a "HH:MM" clock string
// under current_time. Absent or unparseable values yield a nil payload.
func decodeTime(value map[string]json.RawMessage) ContextPayload {
	raw, ok := value["current_time"]
	if !ok {
		return nil
	}

	var hour int
	if err := json.Unmarshal(raw, &hour); err == nil {
		if hour >= 0 && hour <= 23 {
			return TimePayload{Hour: hour}
		}
		return nil
	}

	var clock string
	if err := json.Unmarshal(raw, &clock); err != nil {
		return nil
	}
	parts := strings.SplitN(clock, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return nil
	}
	return TimePayload{Hour: h}
}

// decodeLocation requires both coordinates; anything less is a no-op.
func decodeLocation(value map[string]json.RawMessage) ContextPayload {
	latRaw, ok := value["latitude"]
	if !ok {
		return nil
	}
	lonRaw, ok := value["longitude"]
	if !ok {
		return nil
	}

	var lat, lon float64
	if err := json.Unmarshal(latRaw, &lat); err != nil {
		return nil
	}
	if err := json.Unmarshal(lonRaw, &lon); err != nil {
		return nil
	}
	return LocationPayload{Latitude: lat, Longitude: lon}
}
