package output

import (
	"bytes"
	"testing"
	"time"
)

func TestDeterministicEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		wantJSON string
	}{
		{
			name: "simple struct with floats",
			input: struct {
				Name  string  `json:"name"`
				Score float64 `json:"score"`
				Count int     `json:"count"`
			}{
				Name:  "test",
				Score: 0.123456789,
				Count: 42,
			},
			wantJSON: `{"count":42,"name":"test","score":0.123457}`,
		},
		{
			name: "struct with omitted nil fields",
			input: struct {
				Name  string   `json:"name"`
				Score *float64 `json:"score,omitempty"`
			}{
				Name: "test",
			},
			wantJSON: `{"name":"test"}`,
		},
		{
			name: "struct with zero values and omitempty",
			input: struct {
				Name  string `json:"name"`
				Count int    `json:"count,omitempty"`
			}{
				Name: "test",
			},
			wantJSON: `{"name":"test"}`,
		},
		{
			name: "zero time with omitzero",
			input: struct {
				Name string    `json:"name"`
				At   time.Time `json:"at,omitzero"`
			}{
				Name: "test",
			},
			wantJSON: `{"name":"test"}`,
		},
		{
			name: "time keeps its encoding",
			input: struct {
				At time.Time `json:"at"`
			}{
				At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			},
			wantJSON: `{"at":"2026-01-02T03:04:05Z"}`,
		},
		{
			name: "map with sorted keys",
			input: map[string]interface{}{
				"zebra": "last",
				"alpha": "first",
				"beta":  "second",
			},
			wantJSON: `{"alpha":"first","beta":"second","zebra":"last"}`,
		},
		{
			name:     "int map keys",
			input:    map[int][]string{2: {"b"}, 10: {"c"}, 1: {"a"}},
			wantJSON: `{"1":["a"],"10":["c"],"2":["b"]}`,
		},
		{
			name:     "empty slice stays an array",
			input:    map[string][]string{"children": {}},
			wantJSON: `{"children":[]}`,
		},
		{
			name: "nil slice is omitted",
			input: struct {
				Children []string `json:"children"`
				Name     string   `json:"name"`
			}{Name: "a"},
			wantJSON: `{"name":"a"}`,
		},
		{
			name:     "html is not escaped",
			input:    map[string]string{"description": "a -> b <c>"},
			wantJSON: `{"description":"a -> b <c>"}`,
		},
		{
			name:     "nil value",
			input:    nil,
			wantJSON: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeterministicEncode(tt.input)
			if err != nil {
				t.Fatalf("DeterministicEncode() error = %v", err)
			}
			if string(got) != tt.wantJSON {
				t.Errorf("DeterministicEncode() = %s, want %s", got, tt.wantJSON)
			}
		})
	}
}

func TestDeterministicEncode_Repeatable(t *testing.T) {
	input := map[string]interface{}{
		"nodes": map[string]interface{}{"b": 2.0000001, "a": 1, "c": []int{3, 2, 1}},
		"edges": []map[string]string{{"from": "a", "to": "b"}},
	}
	first, err := DeterministicEncode(input)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := DeterministicEncode(input)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d differs: %s vs %s", i, first, again)
		}
	}
}

func TestDeterministicEncodeIndented(t *testing.T) {
	got, err := DeterministicEncodeIndented(map[string]int{"b": 2, "a": 1}, "  ")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": 2\n}"
	if string(got) != want {
		t.Errorf("DeterministicEncodeIndented() = %q, want %q", got, want)
	}
}
