package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

// FileStore keeps the draw history as a JSON document (the system of record)
// plus a CSV mirror for spreadsheets.
type FileStore struct {
	jsonPath string
	csvPath  string
}

func NewFileStore(jsonPath, csvPath string) *FileStore {
	return &FileStore{jsonPath: jsonPath, csvPath: csvPath}
}

func (s *FileStore) JSONPath() string { return s.jsonPath }
func (s *FileStore) CSVPath() string  { return s.csvPath }

func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.jsonPath)
	return err == nil
}

// Save writes h as a JSON object keyed by contest number.
func (s *FileStore) Save(h lottery.History) error {
	doc := make(map[string]lottery.Draw, len(h))
	for c, d := range h {
		doc[strconv.Itoa(c)] = d
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return writeAtomic(s.jsonPath, data)
}

// Load reads the JSON history, falling back to the CSV file when there is no
// JSON. With neither file the history is empty.
func (s *FileStore) Load() (lottery.History, error) {
	data, err := os.ReadFile(s.jsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		h, err := s.LoadCSV()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.csvPath, err)
		}
		if len(h) > 0 {
			logger.Warn("JSON history missing, loaded CSV", "path", s.csvPath, "draws", len(h))
		}
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.jsonPath, err)
	}

	var doc map[string]lottery.Draw
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.jsonPath, err)
	}

	h := make(lottery.History, len(doc))
	for key, d := range doc {
		c, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("decode %s: bad contest key %q", s.jsonPath, key)
		}
		if d.Contest == 0 {
			d.Contest = c
		}
		h[c] = d
	}
	return h, nil
}

// SaveAll writes both the JSON and CSV files.
func (s *FileStore) SaveAll(h lottery.History) error {
	if err := s.Save(h); err != nil {
		return err
	}
	return s.SaveCSV(h)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
