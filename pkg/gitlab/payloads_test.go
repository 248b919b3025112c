package gitlab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestBuildDiscussionPayload_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		resolve     *bool
		wantResolve string
	}{
		{name: "omitted", resolve: nil},
		{name: "true", resolve: boolPtr(true), wantResolve: "true"},
		{name: "false", resolve: boolPtr(false), wantResolve: "false"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := BuildDiscussionPayload(CreateMergeRequestDiscussionArgs{
				MergeRequestLocator: MergeRequestLocator{Project: "group/proj", MergeRequestIID: 5},
				Body:                "Consider a constant here.",
				Position:            json.RawMessage(validPosition),
				Resolve:             tc.resolve,
			})
			require.NoError(t, err)

			data, err := json.Marshal(payload)
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, "Consider a constant here.", decoded["body"])
			assert.Contains(t, decoded, "position")

			if tc.wantResolve == "" {
				assert.NotContains(t, decoded, "resolve")
			} else {
				assert.Equal(t, tc.wantResolve == "true", decoded["resolve"])
			}
		})
	}
}

func TestBuildDiscussionPayload_InvalidPosition(t *testing.T) {
	_, err := BuildDiscussionPayload(CreateMergeRequestDiscussionArgs{
		MergeRequestLocator: MergeRequestLocator{Project: "group/proj", MergeRequestIID: 5},
		Body:                "body",
		Position:            json.RawMessage(`{"base_sha":"a","head_sha":"b","start_sha":"c"}`),
	})
	require.Error(t, err)
	assert.Equal(t, msgPositionMissingPath, AsError(err).Message)
}

func TestBuildNotePayload_Confidential(t *testing.T) {
	tests := []struct {
		name         string
		confidential *bool
		want         string
	}{
		{name: "omitted", want: `{"body":"LGTM"}`},
		{name: "true", confidential: boolPtr(true), want: `{"body":"LGTM","confidential":true}`},
		{name: "false", confidential: boolPtr(false), want: `{"body":"LGTM","confidential":false}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := BuildNotePayload(CreateMergeRequestNoteArgs{
				MergeRequestLocator: MergeRequestLocator{Project: "group/proj", MergeRequestIID: 5},
				Body:                "LGTM",
				Confidential:        tc.confidential,
			})

			data, err := json.Marshal(payload)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(data))
		})
	}
}
