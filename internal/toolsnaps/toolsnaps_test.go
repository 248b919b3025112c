package toolsnaps

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummyTool struct {
	Name     string   `json:"name"`
	Value    int      `json:"value"`
	Required []string `json:"required,omitempty"`
}

func setup(t *testing.T, update, ci string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("UPDATE_TOOLSNAPS", update)
	t.Setenv("GITLAB_CI", ci)
	t.Setenv("GITHUB_ACTIONS", "false")
}

func writeSnapshot(t *testing.T, name string, contents []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(snapDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(snapDir, name+".snap"), contents, 0o600))
}

func TestSnapshot(t *testing.T) {
	matching, err := json.MarshalIndent(dummyTool{Name: "foo", Value: 42}, "", "  ")
	require.NoError(t, err)

	tests := []struct {
		name        string
		update      string
		ci          string
		existing    []byte
		createDir   bool
		tool        any
		errContains string
		wantWritten bool
	}{
		{
			name:        "missing snapshot is written locally",
			tool:        dummyTool{Name: "foo", Value: 42},
			wantWritten: true,
		},
		{
			name:        "missing snapshot fails in CI",
			ci:          "true",
			tool:        dummyTool{Name: "foo", Value: 42},
			errContains: "tool snapshot does not exist",
		},
		{
			name:        "missing snapshot is written in CI when the directory exists",
			ci:          "true",
			createDir:   true,
			tool:        dummyTool{Name: "foo", Value: 42},
			wantWritten: true,
		},
		{
			name:     "matching snapshot",
			existing: matching,
			tool:     dummyTool{Name: "foo", Value: 42},
		},
		{
			name:        "changed schema",
			existing:    []byte(`{"name":"foo","value":1}`),
			tool:        dummyTool{Name: "foo", Value: 2},
			errContains: "tool schema for dummy has changed unexpectedly",
		},
		{
			name:     "array order is ignored",
			existing: []byte(`{"name":"foo","value":1,"required":["project","merge_request_iid"]}`),
			tool:     dummyTool{Name: "foo", Value: 1, Required: []string{"merge_request_iid", "project"}},
		},
		{
			name:        "update overwrites a stale snapshot",
			update:      "true",
			existing:    []byte(`{"name":"foo","value":1}`),
			tool:        dummyTool{Name: "foo", Value: 42},
			wantWritten: true,
		},
		{
			name:        "malformed snapshot",
			existing:    []byte(`not-json`),
			tool:        dummyTool{Name: "foo", Value: 42},
			errContains: "failed to parse snapshot JSON for dummy",
		},
		{
			name:        "unmarshalable tool",
			tool:        struct{ C chan int }{C: make(chan int)},
			errContains: "failed to marshal tool dummy",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setup(t, tc.update, tc.ci)
			if tc.createDir {
				require.NoError(t, os.MkdirAll(snapDir, 0o700))
			}
			if tc.existing != nil {
				writeSnapshot(t, "dummy", tc.existing)
			}

			err := Test("dummy", tc.tool)
			if tc.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)

			if tc.wantWritten {
				content, err := os.ReadFile(filepath.Join(snapDir, "dummy.snap"))
				require.NoError(t, err)
				var written dummyTool
				require.NoError(t, json.Unmarshal(content, &written))
				assert.Equal(t, 42, written.Value)
			}
		})
	}
}

func TestSnapshotReadError(t *testing.T) {
	setup(t, "false", "false")
	require.NoError(t, os.MkdirAll(filepath.Join(snapDir, "dummy.snap"), 0o700))

	err := Test("dummy", dummyTool{Name: "foo", Value: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read snapshot file for dummy")
}

func TestSnapshotMkdirError(t *testing.T) {
	setup(t, "true", "false")
	require.NoError(t, os.WriteFile(snapDir, []byte("block"), 0o600))

	err := Test("dummy", dummyTool{Name: "foo", Value: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create snapshot directory")
}
