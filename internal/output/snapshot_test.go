package output

import (
	"testing"
	"time"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
)

func TestNormalizeForSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name: "remove build id and time",
			input: `{
				"root": "a",
				"statistics": {
					"buildId": "1234",
					"generatedAt": "2026-01-01T00:00:00Z",
					"totalNodes": 2
				}
			}`,
			want: `{"root":"a","statistics":{"totalNodes":2}}`,
		},
		{
			name: "remove timestamps of every node",
			input: `{
				"nodes": {
					"a": {"id": "a", "lastModified": "2026-01-01T00:00:00Z"},
					"b": {"id": "b", "lastModified": "2026-01-02T00:00:00Z"}
				}
			}`,
			want: `{"nodes":{"a":{"id":"a"},"b":{"id":"b"}}}`,
		},
		{
			name:  "missing fields are ignored",
			input: `{"edges":[]}`,
			want:  `{"edges":[]}`,
		},
		{
			name:    "invalid json",
			input:   `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeForSnapshot([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeForSnapshot() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("NormalizeForSnapshot() = %s, want %s", got, tt.want)
			}
		})
	}
}

func buildFixture(buildID string, at time.Time) *deptree.DependencyTree {
	return &deptree.DependencyTree{
		ProjectPath: "/tmp/" + buildID,
		Root:        "a_ts",
		Nodes: map[string]*deptree.Node{
			"a_ts": {ID: "a_ts", Path: "a.ts", Kind: deptree.KindFile, LastModified: at, Children: []string{}, Parents: []string{}},
		},
		Edges: []deptree.Edge{},
		Stats: deptree.Statistics{TotalNodes: 1, BuildID: buildID, GeneratedAt: at},
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := buildFixture("first", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := buildFixture("second", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if !SnapshotEqual(a, b) {
		t.Error("trees differing only in build metadata should be equal")
	}

	b.Nodes["a_ts"].Complexity = 7
	if SnapshotEqual(a, b) {
		t.Error("trees with different metrics should differ")
	}
}

func TestCompareSnapshots_Message(t *testing.T) {
	ok, msg := CompareSnapshots([]byte(`{"a":1}`), []byte(`{"a":2}`))
	if ok || msg != "snapshots differ" {
		t.Errorf("CompareSnapshots() = %v, %q", ok, msg)
	}
	ok, msg = CompareSnapshots([]byte(`not json`), []byte(`{}`))
	if ok || msg == "" {
		t.Errorf("CompareSnapshots() on invalid input = %v, %q", ok, msg)
	}
}
