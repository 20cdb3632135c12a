package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"breathe/internal/sim"
)

// ExportCSV streams a run's frames as CSV, same columns as frames.csv.
func ExportCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frameHeader); err != nil {
		return err
	}
	for _, f := range frames {
		if err := cw.Write(frameRow(f)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonFrame struct {
	Time            float64 `json:"time"`
	Phase           string  `json:"phase"`
	RawProgress     float64 `json:"raw"`
	EasedProgress   float64 `json:"eased"`
	Crystallization float64 `json:"crystal"`
	OrbitRadius     float64 `json:"orbit_radius"`
	SphereScale     float64 `json:"sphere_scale"`
	MeanRadius      float64 `json:"mean_radius"`
	MinRadius       float64 `json:"min_radius"`
	MaxSpeed        float64 `json:"max_speed"`
	Users           int     `json:"users"`
	Live            int     `json:"live"`
}

type jsonRun struct {
	Metadata *RunMetadata `json:"metadata,omitempty"`
	Frames   []jsonFrame  `json:"frames"`
}

// ExportJSON writes a run with its metadata as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	out := jsonRun{Metadata: meta, Frames: make([]jsonFrame, 0, len(frames))}
	for _, f := range frames {
		out.Frames = append(out.Frames, jsonFrame{
			Time:            f.Time,
			Phase:           f.Phase.String(),
			RawProgress:     f.RawProgress,
			EasedProgress:   f.EasedProgress,
			Crystallization: f.Crystallization,
			OrbitRadius:     f.OrbitRadius,
			SphereScale:     f.SphereScale,
			MeanRadius:      f.MeanRadius,
			MinRadius:       f.MinRadius,
			MaxSpeed:        f.MaxSpeed,
			Users:           f.Users,
			Live:            f.Live,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
