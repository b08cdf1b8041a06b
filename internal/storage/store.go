// Package storage persists model runs under a data directory, one
// directory per run holding metadata.json and records.csv.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/climsim/internal/accuracy"
	"github.com/san-kum/climsim/internal/climate"
)

const (
	KindReplay      = "replay"
	KindExtrapolate = "extrapolate"

	metadataFile = "metadata.json"
	recordsFile  = "records.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	logger  *zap.Logger
	now     func() time.Time
}

func New(baseDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: baseDir, logger: logger, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Timestamp   time.Time          `json:"timestamp"`
	Scenario    string             `json:"scenario,omitempty"`
	Monthly     bool               `json:"monthly"`
	Sensitivity float64            `json:"sensitivity"`
	Emissions   float64            `json:"emissions,omitempty"`
	Records     int                `json:"records"`
	First       string             `json:"first,omitempty"`
	Last        string             `json:"last,omitempty"`
	Average     string             `json:"average,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// Run is what a caller hands to Save.
type Run struct {
	Kind        string
	Scenario    string
	Sensitivity float64
	Emissions   float64
	Records     []climate.Record
	Summary     *accuracy.Summary
}

func (s *Store) Save(run Run) (string, error) {
	if run.Kind == "" {
		return "", fmt.Errorf("storage: run kind is required")
	}
	runID := fmt.Sprintf("%s_%s", run.Kind, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Kind:        run.Kind,
		Timestamp:   s.now(),
		Scenario:    run.Scenario,
		Sensitivity: run.Sensitivity,
		Emissions:   run.Emissions,
		Records:     len(run.Records),
	}
	if n := len(run.Records); n > 0 {
		meta.Monthly = run.Records[0].HasMonth()
		meta.First = run.Records[0].Label()
		meta.Last = run.Records[n-1].Label()
	}
	if run.Summary != nil {
		meta.Average = run.Summary.Average
		meta.Metrics = run.Summary.Metrics
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, recordsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteRecordsCSV(csvFile, run.Records); err != nil {
		return "", err
	}

	s.logger.Info("saved run",
		zap.String("id", runID),
		zap.String("kind", run.Kind),
		zap.Int("records", len(run.Records)),
	)
	return runID, nil
}

// List returns all readable runs, oldest first. Directories without valid
// metadata are skipped.
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
			s.logger.Debug("skipping run directory", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadRecords(runID string) ([]climate.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, recordsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadRecordsCSV(file)
}
