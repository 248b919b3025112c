package gitlab

import (
	"context"
	"encoding/json"

	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MergeRequestLocator identifies a merge request: a project ID or full path plus the project-scoped IID.
type MergeRequestLocator struct {
	Project         string `json:"project"`
	MergeRequestIID uint64 `json:"merge_request_iid"`
}

// CreateMergeRequestDiscussionArgs are the arguments of create_merge_request_discussion.
// Position is kept raw because callers send either an object or a JSON-encoded string.
type CreateMergeRequestDiscussionArgs struct {
	MergeRequestLocator
	Body     string          `json:"body"`
	Position json.RawMessage `json:"position"`
	Resolve  *bool           `json:"resolve,omitempty"`
}

// CreateMergeRequestNoteArgs are the arguments of create_merge_request_note.
type CreateMergeRequestNoteArgs struct {
	MergeRequestLocator
	Body         string `json:"body"`
	Confidential *bool  `json:"confidential,omitempty"`
}

type fetchFunc func(ctx context.Context, project string, iid uint64) (json.RawMessage, error)

// GetMergeRequest defines the get_merge_request tool.
func GetMergeRequest(api MergeRequestAPI, t map[string]string) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return readMergeRequestTool(
		"get_merge_request",
		"Get GitLab Merge Request",
		translations.Translate(t, translations.TOOL_GET_MERGE_REQUEST_DESCRIPTION),
		api.GetMergeRequest,
	)
}

// GetMergeRequestChanges defines the get_merge_request_changes tool.
func GetMergeRequestChanges(api MergeRequestAPI, t map[string]string) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return readMergeRequestTool(
		"get_merge_request_changes",
		"Get GitLab Merge Request Changes",
		translations.Translate(t, translations.TOOL_GET_MERGE_REQUEST_CHANGES_DESCRIPTION),
		api.GetMergeRequestChanges,
	)
}

// GetMergeRequestVersions defines the get_merge_request_versions tool.
func GetMergeRequestVersions(api MergeRequestAPI, t map[string]string) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return readMergeRequestTool(
		"get_merge_request_versions",
		"Get GitLab Merge Request Versions",
		translations.Translate(t, translations.TOOL_GET_MERGE_REQUEST_VERSIONS_DESCRIPTION),
		api.GetMergeRequestVersions,
	)
}

func readMergeRequestTool(name, title, description string, fetch fetchFunc) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		withLocatorParams(),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := bindArguments[MergeRequestLocator](request)
		if err != nil {
			return errorResult(err), nil
		}
		if err := args.validate(); err != nil {
			return errorResult(err), nil
		}

		value, err := fetch(ctx, args.Project, args.MergeRequestIID)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(value), nil
	}

	return tool, handler
}

// CreateMergeRequestDiscussion defines the create_merge_request_discussion tool.
func CreateMergeRequestDiscussion(api MergeRequestAPI, t map[string]string) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("create_merge_request_discussion",
			mcp.WithDescription(translations.Translate(t, translations.TOOL_CREATE_MERGE_REQUEST_DISCUSSION_DESCRIPTION)),
			mcp.WithTitleAnnotation("Create GitLab Merge Request Discussion"),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithOpenWorldHintAnnotation(true),
			withLocatorParams(),
			mcp.WithString("body",
				mcp.Required(),
				mcp.Description("Markdown body of the discussion."),
			),
			withUntypedParam("position", true,
				"Diff position as an object or a JSON-encoded string: base_sha, head_sha, start_sha, new_path, old_path, "+
					"position_type (text or image, default text), and new_line, old_line or line_range."),
			mcp.WithBoolean("resolve",
				mcp.Description("Resolve the discussion immediately after creating it."),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := bindArguments[CreateMergeRequestDiscussionArgs](request)
			if err != nil {
				return errorResult(err), nil
			}
			if err := args.validate(); err != nil {
				return errorResult(err), nil
			}
			if args.Body == "" {
				return errorResult(InvalidParams("missing required parameter: body", nil)), nil
			}

			payload, err := BuildDiscussionPayload(args)
			if err != nil {
				return errorResult(err), nil
			}

			value, err := api.CreateMergeRequestDiscussion(ctx, args.Project, args.MergeRequestIID, payload)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(value), nil
		}
}

// CreateMergeRequestNote defines the create_merge_request_note tool.
func CreateMergeRequestNote(api MergeRequestAPI, t map[string]string) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("create_merge_request_note",
			mcp.WithDescription(translations.Translate(t, translations.TOOL_CREATE_MERGE_REQUEST_NOTE_DESCRIPTION)),
			mcp.WithTitleAnnotation("Create GitLab Merge Request Note"),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithOpenWorldHintAnnotation(true),
			withLocatorParams(),
			mcp.WithString("body",
				mcp.Required(),
				mcp.Description("Markdown body of the note."),
			),
			mcp.WithBoolean("confidential",
				mcp.Description("Only visible to project members with at least Reporter access."),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := bindArguments[CreateMergeRequestNoteArgs](request)
			if err != nil {
				return errorResult(err), nil
			}
			if err := args.validate(); err != nil {
				return errorResult(err), nil
			}
			if args.Body == "" {
				return errorResult(InvalidParams("missing required parameter: body", nil)), nil
			}

			value, err := api.CreateMergeRequestNote(ctx, args.Project, args.MergeRequestIID, BuildNotePayload(args))
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(value), nil
		}
}
