package gitlab

import (
	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/toolsets"
	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/translations"
)

// MergeRequestsToolset is the name of the only toolset this server exposes.
const MergeRequestsToolset = "merge_requests"

// DefaultTools defines the list of toolsets enabled by default.
var DefaultTools = []string{"all"}

// InitToolsets builds the toolset group. In read-only mode the discussion and note tools are not registered.
func InitToolsets(enabledToolsets []string, readOnly bool, api MergeRequestAPI, t map[string]string) (*toolsets.ToolsetGroup, error) {
	tg := toolsets.NewToolsetGroup(readOnly)

	mergeRequests := toolsets.NewToolset(MergeRequestsToolset,
		translations.Translate(t, translations.TOOLSET_MERGE_REQUESTS_DESCRIPTION))
	mergeRequests.AddReadTools(
		toolsets.NewServerTool(GetMergeRequest(api, t)),
		toolsets.NewServerTool(GetMergeRequestChanges(api, t)),
		toolsets.NewServerTool(GetMergeRequestVersions(api, t)),
	)
	mergeRequests.AddWriteTools(
		toolsets.NewServerTool(CreateMergeRequestDiscussion(api, t)),
		toolsets.NewServerTool(CreateMergeRequestNote(api, t)),
	)
	tg.AddToolset(mergeRequests)

	if err := tg.EnableToolsets(enabledToolsets); err != nil {
		return nil, err
	}
	return tg, nil
}
