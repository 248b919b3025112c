package gitlab

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// withLocatorParams adds the project and merge_request_iid parameters shared by every tool.
func withLocatorParams() mcp.ToolOption {
	return func(t *mcp.Tool) {
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project ID or full path, for example 'group/subgroup/project'."),
		)(t)
		mcp.WithNumber("merge_request_iid",
			mcp.Required(),
			mcp.Description("Project-scoped IID of the merge request."),
			mcp.Min(1),
		)(t)
	}
}

// withUntypedParam adds a parameter without a type constraint, for values that may arrive in several JSON shapes.
func withUntypedParam(name string, required bool, description string) mcp.ToolOption {
	return func(t *mcp.Tool) {
		t.InputSchema.Properties[name] = map[string]any{
			"description": description,
		}
		if required {
			t.InputSchema.Required = append(t.InputSchema.Required, name)
		}
	}
}

// bindArguments decodes the tool arguments into T. Type mismatches are reported as invalid params.
func bindArguments[T any](request mcp.CallToolRequest) (T, error) {
	var args T
	if err := request.BindArguments(&args); err != nil {
		return args, InvalidParams("invalid tool arguments", err.Error())
	}
	return args, nil
}

func (l MergeRequestLocator) validate() error {
	if strings.TrimSpace(l.Project) == "" {
		return InvalidParams("missing required parameter: project", nil)
	}
	if l.MergeRequestIID == 0 {
		return InvalidParams("missing required parameter: merge_request_iid", nil)
	}
	return nil
}

// jsonResult renders a GitLab response as pretty-printed JSON text, keeping key order and number precision.
func jsonResult(value json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	if err := json.Indent(&buf, value, "", "  "); err != nil {
		return errorResult(Internal("failed to format GitLab response", err.Error()))
	}
	return mcp.NewToolResultText(buf.String())
}

// errorResult converts err into a tool error result. The text carries the JSON form of
// the structured error and StructuredContent carries the same payload.
func errorResult(err error) *mcp.CallToolResult {
	payload := AsError(err).Payload()
	text, marshalErr := json.MarshalIndent(payload, "", "  ")
	if marshalErr != nil {
		text = []byte(payload.Message)
	}
	result := mcp.NewToolResultError(string(text))
	result.StructuredContent = payload
	return result
}

// ErrorPayloadFromResult extracts the structured error from a tool result, if there is one.
func ErrorPayloadFromResult(result *mcp.CallToolResult) (ErrorPayload, bool) {
	if result == nil || !result.IsError {
		return ErrorPayload{}, false
	}
	payload, ok := result.StructuredContent.(ErrorPayload)
	return payload, ok
}
