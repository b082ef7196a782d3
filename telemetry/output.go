package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/biosim/config"
)

// CellRecord is one row of distribution.csv: the head count of one cell at
// the end of a year. Row and Col are 1-based.
type CellRecord struct {
	Year      int    `csv:"year"`
	Row       int    `csv:"row"`
	Col       int    `csv:"col"`
	Terrain   string `csv:"terrain"`
	Grazers   int    `csv:"grazers"`
	Predators int    `csv:"predators"`
}

// csvFile is an append-only CSV file whose header is written with the first
// batch of records.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{name: name, f: f}, nil
}

func writeRecords[T any](c *csvFile, records []T) error {
	if c == nil || len(records) == 0 {
		return nil
	}
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", c.name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

func (c *csvFile) close() error {
	if c == nil {
		return nil
	}
	return c.f.Close()
}

// OutputManager handles experiment output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir          string
	population   *csvFile
	perf         *csvFile
	bookmarks    *csvFile
	distribution *csvFile // nil unless enabled
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled). distribution.csv is only
// created when withDistribution is set.
func NewOutputManager(dir string, withDistribution bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.population, err = createCSV(dir, "population.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = createCSV(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = createCSV(dir, "bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if withDistribution {
		if om.distribution, err = createCSV(dir, "distribution.csv"); err != nil {
			om.Close()
			return nil, err
		}
	}
	return om, nil
}

// WriteConfig saves the resolved configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteYear writes a year summary to population.csv.
func (om *OutputManager) WriteYear(stats YearStats) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.population, []YearStats{stats})
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, year int) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.perf, []PerfStatsCSV{stats.ToCSV(year)})
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.bookmarks, []Bookmark{b})
}

// WantsDistribution reports whether distribution.csv is being written.
func (om *OutputManager) WantsDistribution() bool {
	return om != nil && om.distribution != nil
}

// WriteDistribution appends one year of per-cell counts to
// distribution.csv. It is a no-op when distribution output is disabled.
func (om *OutputManager) WriteDistribution(records []CellRecord) error {
	if !om.WantsDistribution() {
		return nil
	}
	return writeRecords(om.distribution, records)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, c := range []*csvFile{om.population, om.perf, om.bookmarks, om.distribution} {
		if err := c.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
