package output

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SnapshotExcludeFields lists fields that differ between otherwise
// identical builds. A "*" segment matches every key of an object.
var SnapshotExcludeFields = []string{
	"statistics.buildId",
	"statistics.generatedAt",
	"nodes.*.lastModified",
	"projectPath",
}

// NormalizeForSnapshot removes build-varying fields and re-encodes.
func NormalizeForSnapshot(data []byte) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	for _, field := range SnapshotExcludeFields {
		removeNestedField(parsed, strings.Split(field, "."))
	}

	return DeterministicEncode(parsed)
}

// CompareSnapshots reports whether two encoded trees are identical
// ignoring build-varying fields. The message explains a mismatch.
func CompareSnapshots(a, b []byte) (bool, string) {
	normalizedA, err := NormalizeForSnapshot(a)
	if err != nil {
		return false, "failed to normalize snapshot A: " + err.Error()
	}

	normalizedB, err := NormalizeForSnapshot(b)
	if err != nil {
		return false, "failed to normalize snapshot B: " + err.Error()
	}

	if !bytes.Equal(normalizedA, normalizedB) {
		return false, "snapshots differ"
	}
	return true, ""
}

// SnapshotEqual encodes both values and compares them as snapshots.
func SnapshotEqual(a, b interface{}) bool {
	aJSON, err := DeterministicEncode(a)
	if err != nil {
		return false
	}
	bJSON, err := DeterministicEncode(b)
	if err != nil {
		return false
	}
	equal, _ := CompareSnapshots(aJSON, bJSON)
	return equal
}

func removeNestedField(data map[string]interface{}, parts []string) {
	if len(parts) == 0 {
		return
	}
	head := parts[0]
	if len(parts) == 1 {
		if head == "*" {
			for k := range data {
				delete(data, k)
			}
			return
		}
		delete(data, head)
		return
	}

	if head == "*" {
		for _, v := range data {
			if child, ok := v.(map[string]interface{}); ok {
				removeNestedField(child, parts[1:])
			}
		}
		return
	}
	if child, ok := data[head].(map[string]interface{}); ok {
		removeNestedField(child, parts[1:])
	}
}
