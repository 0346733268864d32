package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fabricsim/internal/config"
	"github.com/san-kum/fabricsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a saved headless run. Series sampled during the
// run live next to it in series.csv.
type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	Spacing     float64            `json:"spacing"`
	Placement   string             `json:"placement"`
	Form        string             `json:"form"`
	Pinning     string             `json:"pinning"`
	Steps       int                `json:"steps"`
	SampleEvery int                `json:"sample_every"`
	Metrics     map[string]float64 `json:"metrics"`
}

func runName(cfg *config.Config) string {
	if cfg.Preset != "" {
		return cfg.Preset
	}
	return "custom"
}

func (s *Store) Save(cfg *config.Config, runCfg sim.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runName(cfg), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Preset:      cfg.Preset,
		Timestamp:   now,
		Seed:        cfg.Seed,
		Rows:        cfg.Rows,
		Cols:        cfg.Cols,
		Spacing:     cfg.Spacing,
		Placement:   cfg.Placement,
		Form:        cfg.Form,
		Pinning:     cfg.Pinning,
		Steps:       result.StepsTaken,
		SampleEvery: runCfg.SampleEvery,
		Metrics:     result.Metrics,
	}

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

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeSeries(w, result.Series, runCfg.SampleEvery); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func writeSeries(w *csv.Writer, series map[string][]float64, every int) error {
	names := make([]string, 0, len(series))
	rows := 0
	for name, values := range series {
		names = append(names, name)
		if len(values) > rows {
			rows = len(values)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	if every < 1 {
		every = 1
	}

	if err := w.Write(append([]string{"step"}, names...)); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa((i + 1) * every)}
		for _, name := range names {
			values := series[name]
			if i < len(values) {
				row = append(row, strconv.FormatFloat(values[i], 'f', 6, 64))
			} else {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns saved runs, oldest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// LoadSeries reads the sampled metric series of a run, keyed by metric
// name, along with the step each sample was taken at.
func (s *Store) LoadSeries(runID string) (map[string][]float64, []int, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	if len(records) < 2 {
		return series, []int{}, nil
	}

	header := records[0]
	steps := make([]int, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		steps = append(steps, step)

		for j := 1; j < len(record) && j < len(header); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				val = 0
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return series, steps, nil
}
