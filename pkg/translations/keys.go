package translations

// Keys for user-facing strings that can be overridden from the translations file.
const (
	SERVER_INSTRUCTIONS = "SERVER_INSTRUCTIONS"

	TOOL_GET_MERGE_REQUEST_DESCRIPTION               = "TOOL_GET_MERGE_REQUEST_DESCRIPTION"
	TOOL_GET_MERGE_REQUEST_CHANGES_DESCRIPTION       = "TOOL_GET_MERGE_REQUEST_CHANGES_DESCRIPTION"
	TOOL_GET_MERGE_REQUEST_VERSIONS_DESCRIPTION      = "TOOL_GET_MERGE_REQUEST_VERSIONS_DESCRIPTION"
	TOOL_CREATE_MERGE_REQUEST_DISCUSSION_DESCRIPTION = "TOOL_CREATE_MERGE_REQUEST_DISCUSSION_DESCRIPTION"
	TOOL_CREATE_MERGE_REQUEST_NOTE_DESCRIPTION       = "TOOL_CREATE_MERGE_REQUEST_NOTE_DESCRIPTION"
	TOOLSET_MERGE_REQUESTS_DESCRIPTION               = "TOOLSET_MERGE_REQUESTS_DESCRIPTION"
)

var defaults = map[string]string{
	SERVER_INSTRUCTIONS: "GitLab merge request review tools. Set GITLAB_URL (without /api/v4) and GITLAB_TOKEN before launch. " +
		"Workflow: (1) get_merge_request for metadata and get_merge_request_changes for diff context; " +
		"(2) get_merge_request_versions and take the first entry's base/head/start commit SHAs; " +
		"(3) call create_merge_request_discussion with body markdown and a position JSON containing: " +
		"base_sha, head_sha, start_sha, new_path, old_path, and line numbers (new_line for additions, old_line for deletions). " +
		"The position_type field defaults to 'text' if not specified. Use create_merge_request_note for top-level MR comments.",

	TOOL_GET_MERGE_REQUEST_DESCRIPTION:          "Fetch metadata for a GitLab merge request (title, author, state, approvals, etc.)",
	TOOL_GET_MERGE_REQUEST_CHANGES_DESCRIPTION:  "Fetch the diff changes for a GitLab merge request (file list and hunks)",
	TOOL_GET_MERGE_REQUEST_VERSIONS_DESCRIPTION: "Fetch merge request versions (base/head/start commit SHAs for discussions)",
	TOOL_CREATE_MERGE_REQUEST_DISCUSSION_DESCRIPTION: "Create a line-level discussion on a GitLab merge request. " +
		"The position field requires: base_sha, head_sha, start_sha (from get_merge_request_versions), new_path, old_path, " +
		"and line numbers (new_line for additions, old_line for deletions). Position can be a JSON object or string. " +
		"The position_type defaults to 'text'.",
	TOOL_CREATE_MERGE_REQUEST_NOTE_DESCRIPTION: "Create a general note on a GitLab merge request (top-level discussion comment)",
	TOOLSET_MERGE_REQUESTS_DESCRIPTION:         "Tools for reviewing GitLab merge requests: metadata, diffs, versions, discussions and notes.",
}

// getAllTranslationKeys returns every key with its default English value.
func getAllTranslationKeys() map[string]string {
	keys := make(map[string]string, len(defaults))
	for k, v := range defaults {
		keys[k] = v
	}
	return keys
}
