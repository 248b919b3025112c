package gitlab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	msgPositionNotJSON   = "position string is not valid JSON"
	msgPositionNotObject = "position must be a GitLab discussion position object"

	msgPositionMissingSHA  = "GitLab discussion position requires base_sha, head_sha, and start_sha"
	msgPositionMissingPath = "GitLab discussion position requires both new_path and old_path"
	msgPositionMissingLine = "GitLab discussion position requires at least one of new_line, old_line, or line_range"
)

// PositionType is the kind of diff position. Only text positions anchor to lines.
type PositionType string

const (
	PositionTypeText  PositionType = "text"
	PositionTypeImage PositionType = "image"
)

func (t *PositionType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("position_type must be a string, got null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch PositionType(s) {
	case PositionTypeText, PositionTypeImage:
		*t = PositionType(s)
		return nil
	}
	return fmt.Errorf("unknown position_type %q, expected one of text, image", s)
}

// LineType says which side of the diff a line reference points to.
type LineType string

const (
	LineTypeNew LineType = "new"
	LineTypeOld LineType = "old"
)

func (t *LineType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch LineType(s) {
	case LineTypeNew, LineTypeOld:
		*t = LineType(s)
		return nil
	}
	return fmt.Errorf("unknown line type %q, expected one of new, old", s)
}

// LineReference is one end of a multi-line range.
type LineReference struct {
	LineCode string   `json:"line_code"`
	Type     LineType `json:"type"`
	OldLine  *uint32  `json:"old_line,omitempty"`
	NewLine  *uint32  `json:"new_line,omitempty"`
}

func (r *LineReference) UnmarshalJSON(data []byte) error {
	var wire struct {
		LineCode *string   `json:"line_code"`
		Type     *LineType `json:"type"`
		OldLine  *uint32   `json:"old_line"`
		NewLine  *uint32   `json:"new_line"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.LineCode == nil {
		return errors.New("line reference is missing field line_code")
	}
	if wire.Type == nil {
		return errors.New("line reference is missing field type")
	}
	*r = LineReference{
		LineCode: *wire.LineCode,
		Type:     *wire.Type,
		OldLine:  wire.OldLine,
		NewLine:  wire.NewLine,
	}
	return nil
}

// LineRange anchors a discussion to several consecutive lines.
type LineRange struct {
	Start LineReference `json:"start"`
	End   LineReference `json:"end"`
}

func (r *LineRange) UnmarshalJSON(data []byte) error {
	var wire struct {
		Start *LineReference `json:"start"`
		End   *LineReference `json:"end"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Start == nil {
		return errors.New("line_range is missing field start")
	}
	if wire.End == nil {
		return errors.New("line_range is missing field end")
	}
	*r = LineRange{Start: *wire.Start, End: *wire.End}
	return nil
}

// DiscussionPosition anchors a merge request discussion to a diff location.
// The three SHAs come from the merge request versions endpoint.
type DiscussionPosition struct {
	BaseSHA      string       `json:"base_sha"`
	HeadSHA      string       `json:"head_sha"`
	StartSHA     string       `json:"start_sha"`
	PositionType PositionType `json:"position_type"`
	NewPath      string       `json:"new_path"`
	OldPath      string       `json:"old_path"`
	NewLine      *uint32      `json:"new_line,omitempty"`
	OldLine      *uint32      `json:"old_line,omitempty"`
	LineRange    *LineRange   `json:"line_range,omitempty"`
}

// Validate checks the invariants GitLab enforces on a text position, in order:
// all SHAs, then both paths, then at least one line anchor.
func (p *DiscussionPosition) Validate() error {
	if blank(p.BaseSHA) || blank(p.HeadSHA) || blank(p.StartSHA) {
		return InvalidParams(msgPositionMissingSHA, nil)
	}
	if blank(p.NewPath) || blank(p.OldPath) {
		return InvalidParams(msgPositionMissingPath, nil)
	}
	if p.NewLine == nil && p.OldLine == nil && p.LineRange == nil {
		return InvalidParams(msgPositionMissingLine, nil)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseDiscussionPosition accepts either a position object or a string holding
// its JSON encoding. position_type defaults to text. The result is not validated.
func ParseDiscussionPosition(raw json.RawMessage) (*DiscussionPosition, error) {
	value := bytes.TrimSpace(raw)

	if len(value) > 0 && value[0] == '"' {
		var encoded string
		if err := json.Unmarshal(value, &encoded); err != nil {
			return nil, InvalidParams(msgPositionNotJSON, err.Error())
		}
		value = bytes.TrimSpace([]byte(encoded))
		var probe json.RawMessage
		if err := json.Unmarshal(value, &probe); err != nil {
			return nil, InvalidParams(msgPositionNotJSON, err.Error())
		}
	}

	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil, InvalidParams(msgPositionNotObject, "position is required")
	}

	var position DiscussionPosition
	if err := json.Unmarshal(value, &position); err != nil {
		return nil, InvalidParams(msgPositionNotObject, err.Error())
	}
	if position.PositionType == "" {
		position.PositionType = PositionTypeText
	}
	return &position, nil
}

// DecodeDiscussionPosition parses and validates a position argument.
func DecodeDiscussionPosition(raw json.RawMessage) (*DiscussionPosition, error) {
	position, err := ParseDiscussionPosition(raw)
	if err != nil {
		return nil, err
	}
	if err := position.Validate(); err != nil {
		return nil, err
	}
	return position, nil
}
