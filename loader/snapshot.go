package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ridoystarlord/knexgen/schema"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the snapshot format this build reads and writes.
const SnapshotVersion = 1

// ErrTableNotFound is returned by DescribeTable for unknown tables.
var ErrTableNotFound = errors.New("table not found in snapshot")

// Snapshot is an offline copy of catalog descriptors. It serves the same
// ListTables/DescribeTable calls as a live inspector.
type Snapshot struct {
	Version   int            `yaml:"version"`
	CreatedAt time.Time      `yaml:"created_at"`
	Source    string         `yaml:"source,omitempty"`
	Tables    []schema.Table `yaml:"tables"`

	index map[string]int
}

// NewSnapshot builds a snapshot from descriptors, sorted by qualified name.
func NewSnapshot(source string, createdAt time.Time, tables []schema.Table) (*Snapshot, error) {
	s := &Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: createdAt,
		Source:    source,
		Tables:    make([]schema.Table, len(tables)),
	}
	for i, t := range tables {
		s.Tables[i] = t.Clone()
	}
	sort.SliceStable(s.Tables, func(i, j int) bool {
		return s.Tables[i].QualifiedName() < s.Tables[j].QualifiedName()
	})
	if err := s.buildIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSnapshot reads a snapshot file written by SaveSnapshot.
func LoadSnapshot(filename string) (*Snapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", s.Version, SnapshotVersion)
	}
	if err := s.buildIndex(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &s, nil
}

// SaveSnapshot writes s as YAML, creating the parent directory if needed.
func SaveSnapshot(filename string, s *Snapshot) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}
	return nil
}

func (s *Snapshot) buildIndex() error {
	s.index = make(map[string]int, len(s.Tables))
	for i, t := range s.Tables {
		if t.Schema == "" || t.Name == "" {
			return fmt.Errorf("table %d: schema and name are required", i)
		}
		key := t.QualifiedName()
		if _, dup := s.index[key]; dup {
			return fmt.Errorf("duplicate table %s", key)
		}
		s.index[key] = i
	}
	return nil
}

// Schemas lists the distinct schemas in the snapshot.
func (s *Snapshot) Schemas() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.Tables {
		if !seen[t.Schema] {
			seen[t.Schema] = true
			out = append(out, t.Schema)
		}
	}
	sort.Strings(out)
	return out
}

// ListTables returns the table names of a schema in name order.
func (s *Snapshot) ListTables(_ context.Context, schemaName string) ([]string, error) {
	var names []string
	for _, t := range s.Tables {
		if t.Schema == schemaName {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// DescribeTable returns a copy of the stored descriptor.
func (s *Snapshot) DescribeTable(_ context.Context, schemaName, tableName string) (*schema.Table, error) {
	i, ok := s.index[schemaName+"."+tableName]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", schemaName, tableName, ErrTableNotFound)
	}
	t := s.Tables[i].Clone()
	return &t, nil
}
