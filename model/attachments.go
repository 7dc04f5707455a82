package model

import "strings"

// AttachmentKind ...
type AttachmentKind string

// AttachmentKind values
const (
	KindScreenshot AttachmentKind = "screenshot"
	KindLog        AttachmentKind = "log"
	KindData       AttachmentKind = "data"
)

const unknownType = "unknown"

// Kind classifies the attachment by its uniform type identifier.
func (a Attachment) Kind() AttachmentKind {
	if a.UniformTypeIdentifier == nil {
		return KindData
	}

	uti := *a.UniformTypeIdentifier
	switch {
	case strings.Contains(uti, "image"):
		return KindScreenshot
	case strings.Contains(uti, "log"), strings.Contains(uti, "text"):
		return KindLog
	default:
		return KindData
	}
}

// Size ...
func (a Attachment) Size() int {
	return len(a.Data)
}

// Type returns the uniform type identifier or "unknown".
func (a Attachment) Type() string {
	if a.UniformTypeIdentifier == nil || *a.UniformTypeIdentifier == "" {
		return unknownType
	}
	return *a.UniformTypeIdentifier
}

// Attachments ...
type Attachments []Attachment

// GroupedByType groups the attachments by uniform type identifier, keeping their order within a group.
func (a Attachments) GroupedByType() map[string]Attachments {
	groups := map[string]Attachments{}
	for _, attachment := range a {
		key := attachment.Type()
		groups[key] = append(groups[key], attachment)
	}
	return groups
}

// Screenshots returns image attachments and the ones named like a screenshot.
func (a Attachments) Screenshots() Attachments {
	return a.filter(func(attachment Attachment) bool {
		return utiContains(attachment, "image") || strings.Contains(strings.ToLower(attachment.Name), "screenshot")
	})
}

// Logs returns text attachments and the ones named like a log.
func (a Attachments) Logs() Attachments {
	return a.filter(func(attachment Attachment) bool {
		return utiContains(attachment, "text") || strings.Contains(strings.ToLower(attachment.Name), "log")
	})
}

// TotalSize is the summed payload size in bytes.
func (a Attachments) TotalSize() int {
	total := 0
	for _, attachment := range a {
		total += attachment.Size()
	}
	return total
}

func (a Attachments) filter(match func(Attachment) bool) Attachments {
	var filtered Attachments
	for _, attachment := range a {
		if match(attachment) {
			filtered = append(filtered, attachment)
		}
	}
	return filtered
}

func utiContains(attachment Attachment, s string) bool {
	return attachment.UniformTypeIdentifier != nil && strings.Contains(*attachment.UniformTypeIdentifier, s)
}
