package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"breathe/internal/breath"
	"breathe/internal/sim"
)

// Store persists completed runs under baseDir, one directory per run with a
// metadata.json and a frames.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Curve     string             `json:"curve"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Users     int                `json:"users"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

var frameHeader = []string{
	"time", "phase", "raw", "eased", "crystal",
	"orbit_radius", "sphere_scale",
	"mean_radius", "min_radius", "max_speed",
	"users", "live",
}

func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Curve, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		if err := w.Write(frameRow(f)); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func frameRow(f sim.Frame) []string {
	return []string{
		strconv.FormatFloat(f.Time, 'f', 6, 64),
		f.Phase.String(),
		strconv.FormatFloat(f.RawProgress, 'f', 6, 64),
		strconv.FormatFloat(f.EasedProgress, 'f', 6, 64),
		strconv.FormatFloat(f.Crystallization, 'f', 6, 64),
		strconv.FormatFloat(f.OrbitRadius, 'f', 6, 64),
		strconv.FormatFloat(f.SphereScale, 'f', 6, 64),
		strconv.FormatFloat(f.MeanRadius, 'f', 6, 64),
		strconv.FormatFloat(f.MinRadius, 'f', 6, 64),
		strconv.FormatFloat(f.MaxSpeed, 'f', 6, 64),
		strconv.Itoa(f.Users),
		strconv.Itoa(f.Live),
	}
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}
		f, err := parseFrame(record)
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(record []string) (sim.Frame, error) {
	var f sim.Frame
	floats := []*float64{
		&f.Time, nil, &f.RawProgress, &f.EasedProgress, &f.Crystallization,
		&f.OrbitRadius, &f.SphereScale,
		&f.MeanRadius, &f.MinRadius, &f.MaxSpeed,
	}
	for i, dst := range floats {
		if dst == nil {
			continue
		}
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return f, err
		}
		*dst = v
	}
	phase, err := breath.ParsePhase(record[1])
	if err != nil {
		return f, err
	}
	f.Phase = phase
	users, err := strconv.Atoi(record[10])
	if err != nil {
		return f, err
	}
	live, err := strconv.Atoi(record[11])
	if err != nil {
		return f, err
	}
	f.Users, f.Live = users, live
	return f, nil
}
