package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Position is a geographic position in degrees.
type Position struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// UnmarshalJSON accepts the feed's [lon, lat] pair as well as the {"lon","lat"} object form.
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := sonic.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("position must have exactly 2 elements, got %d", len(pair))
		}
		p.Lon, p.Lat = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	}
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("position must be either [lon, lat] or {\"lon\", \"lat\"}")
	}
	p.Lon, p.Lat = obj.Lon, obj.Lat
	return nil
}

// MarshalJSON writes the [lon, lat] pair used by the feed.
func (p Position) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([2]float64{p.Lon, p.Lat})
}

// Sample is one timestamped position and metric reading for a tracked vessel.
// Samples are never modified after the data provider hands them out.
type Sample struct {
	Position    Position `json:"position"`
	Power       float64  `json:"power"`
	Consumption float64  `json:"consumption"`
	Timestamp   any      `json:"timestamp,omitempty"`
}

// Feed is the on-disk document shape of a sample feed.
type Feed struct {
	Data []Sample `json:"Data"`
}
