package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoApplicableSnapshot means no snapshot version <= the requested date
// exists. This is a configuration gap and fatal for the run.
var ErrNoApplicableSnapshot = errors.New("no applicable snapshot for date")

// ErrUnrecognizedDuplicatesFormat means the duplicates file is neither a flat
// name map nor an array of resolution records. Fatal at startup.
var ErrUnrecognizedDuplicatesFormat = errors.New("unrecognized duplicates file format")

// SnapshotSet maps a version string ("YYYY-MM") to the ordered canonical
// college list valid from that version onward.
type SnapshotSet map[string][]string

// LoadSnapshots reads a college snapshots JSON file.
func LoadSnapshots(path string) (SnapshotSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots file: %w", err)
	}

	var set SnapshotSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse snapshots file: %w", err)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("snapshots file %s contains no versions", path)
	}
	return set, nil
}

// PickSnapshotVersion returns the greatest version key <= date. Versions are
// "YYYY-MM" strings, so lexicographic comparison is chronological.
func PickSnapshotVersion(date string, set SnapshotSet) (string, error) {
	best := ""
	for version := range set {
		if version <= date && version > best {
			best = version
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: %s", ErrNoApplicableSnapshot, date)
	}
	return best, nil
}

// PickSnapshot returns the college list of the greatest version key <= date.
func PickSnapshot(date string, set SnapshotSet) ([]string, error) {
	version, err := PickSnapshotVersion(date, set)
	if err != nil {
		return nil, err
	}
	return set[version], nil
}

// DuplicatesMap resolves raw degree-name spellings to canonical names.
// Lookup is identity for names with no entry.
type DuplicatesMap map[string]string

// Resolve returns the canonical spelling for a raw degree name.
func (d DuplicatesMap) Resolve(raw string) string {
	if canonical, ok := d[raw]; ok {
		return canonical
	}
	return raw
}

// duplicateRecord is the element shape of the array duplicates format.
type duplicateRecord struct {
	RawDegreeName string `json:"raw_degree_name"`
	ResolvedName  string `json:"resolved_name"`
}

// LoadDuplicates reads a degree duplicates file. Two formats are accepted:
// a flat object {raw: canonical} or an array of
// {"raw_degree_name": ..., "resolved_name": ...} records. The array form is
// normalized into the flat form; any other shape is rejected.
func LoadDuplicates(path string) (DuplicatesMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read duplicates file: %w", err)
	}
	return ParseDuplicates(data)
}

// ParseDuplicates parses duplicates file content in either accepted format.
func ParseDuplicates(data []byte) (DuplicatesMap, error) {
	switch firstNonSpace(data) {
	case '{':
		var flat map[string]string
		if err := json.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedDuplicatesFormat, err)
		}
		return DuplicatesMap(flat), nil
	case '[':
		var records []duplicateRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedDuplicatesFormat, err)
		}
		flat := make(DuplicatesMap, len(records))
		for i, r := range records {
			if r.RawDegreeName == "" || r.ResolvedName == "" {
				return nil, fmt.Errorf("%w: record %d missing raw_degree_name or resolved_name", ErrUnrecognizedDuplicatesFormat, i)
			}
			flat[r.RawDegreeName] = r.ResolvedName
		}
		return flat, nil
	default:
		return nil, fmt.Errorf("%w: expected JSON object or array", ErrUnrecognizedDuplicatesFormat)
	}
}

// firstNonSpace returns the first non-whitespace byte, or 0 for blank input.
func firstNonSpace(data []byte) byte {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if trimmed == "" {
		return 0
	}
	return trimmed[0]
}
