package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew_AttachesDefaultFixes(t *testing.T) {
	cause := errors.New("no such file or directory")
	err := New(ProjectNotFound, "project path does not exist", cause)

	if err.Code != ProjectNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ProjectNotFound)
	}
	if len(err.SuggestedFixes) == 0 {
		t.Error("expected default suggested fixes for PROJECT_NOT_FOUND")
	}

	noFixes := New(InternalError, "boom", nil)
	if len(noFixes.SuggestedFixes) != 0 {
		t.Errorf("INTERNAL_ERROR should carry no fixes, got %d", len(noFixes.SuggestedFixes))
	}
}

func TestCodeseekerError_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       *CodeseekerError
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       New(StatFailed, "cannot stat src/a.ts", errors.New("permission denied")),
			wantParts: []string{"STAT_FAILED", "cannot stat src/a.ts", "permission denied"},
		},
		{
			name:      "without cause",
			err:       New(NodeNotFound, "no node named foo", nil),
			wantParts: []string{"NODE_NOT_FOUND", "no node named foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestCodeseekerError_UnwrapAndCodeOf(t *testing.T) {
	cause := errors.New("root cause")
	err := New(DiscoveryFailed, "walk failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	wrapped := fmt.Errorf("build: %w", err)
	code, ok := CodeOf(wrapped)
	if !ok || code != DiscoveryFailed {
		t.Errorf("CodeOf() = (%v, %v), want (%v, true)", code, ok, DiscoveryFailed)
	}

	if _, ok := CodeOf(errors.New("plain")); ok {
		t.Error("CodeOf should not match a plain error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(StatFailed, "stat failed", nil).WithDetails(map[string]string{"file": "a.ts"})
	details, ok := err.Details.(map[string]string)
	if !ok || details["file"] != "a.ts" {
		t.Errorf("Details = %#v", err.Details)
	}
}
