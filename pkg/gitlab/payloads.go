package gitlab

// DiscussionPayload is the body of POST /projects/:id/merge_requests/:iid/discussions.
type DiscussionPayload struct {
	Body     string              `json:"body"`
	Position *DiscussionPosition `json:"position"`
	Resolve  *bool               `json:"resolve,omitempty"`
}

// NotePayload is the body of POST /projects/:id/merge_requests/:iid/notes.
type NotePayload struct {
	Body         string `json:"body"`
	Confidential *bool  `json:"confidential,omitempty"`
}

// BuildDiscussionPayload validates the position and assembles the request body.
// resolve is only sent when the caller set it.
func BuildDiscussionPayload(args CreateMergeRequestDiscussionArgs) (*DiscussionPayload, error) {
	position, err := DecodeDiscussionPosition(args.Position)
	if err != nil {
		return nil, err
	}
	return &DiscussionPayload{
		Body:     args.Body,
		Position: position,
		Resolve:  args.Resolve,
	}, nil
}

// BuildNotePayload assembles the note body. confidential is only sent when the caller set it.
func BuildNotePayload(args CreateMergeRequestNoteArgs) *NotePayload {
	return &NotePayload{
		Body:         args.Body,
		Confidential: args.Confidential,
	}
}
