package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

const metadataSuffix = ".metadata.json"

// File is an exported file, its Name is relative to the export directory.
type File struct {
	Name     string
	Contents []byte
}

// AttachmentMetadata is written next to every exported attachment.
type AttachmentMetadata struct {
	Name                  string     `json:"name"`
	TestIdentifier        string     `json:"testIdentifier"`
	ActivityTitle         *string    `json:"activityTitle,omitempty"`
	UniformTypeIdentifier *string    `json:"uniformTypeIdentifier,omitempty"`
	Timestamp             *time.Time `json:"timestamp,omitempty"`
	OriginalFilename      *string    `json:"originalFilename,omitempty"`
	ExportedFilename      string     `json:"exportedFilename"`
	Size                  int        `json:"size"`
}

// AttachmentFiles returns the payload of every attachment as a file, optionally followed by its metadata file.
// Attachments without a usable filename are named after their index. Filenames are reduced to their base name,
// a repeated name gets the attachment index as suffix.
func AttachmentFiles(attachments model.Attachments, includeMetadata bool) ([]File, error) {
	var files []File
	used := map[string]bool{}
	for i, attachment := range attachments {
		filename := uniqueFilename(exportFilename(i, attachment), i, used)
		used[filename] = true
		used[filename+metadataSuffix] = true

		files = append(files, File{Name: filename, Contents: attachment.Data})

		if !includeMetadata {
			continue
		}

		metadata := AttachmentMetadata{
			Name:                  attachment.Name,
			TestIdentifier:        attachment.TestIdentifier,
			ActivityTitle:         attachment.ActivityTitle,
			UniformTypeIdentifier: attachment.UniformTypeIdentifier,
			Timestamp:             attachment.Timestamp,
			OriginalFilename:      attachment.Filename,
			ExportedFilename:      filename,
			Size:                  attachment.Size(),
		}
		contents, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata of %s: %w", filename, err)
		}

		files = append(files, File{Name: filename + metadataSuffix, Contents: contents})
	}
	return files, nil
}

func exportFilename(index int, attachment model.Attachment) string {
	if attachment.Filename != nil {
		base := filepath.Base(strings.ReplaceAll(*attachment.Filename, "\\", "/"))
		switch base {
		case "", ".", "..", "/":
		default:
			return base
		}
	}
	return fmt.Sprintf("attachment_%d", index)
}

func uniqueFilename(filename string, index int, used map[string]bool) string {
	if !used[filename] {
		return filename
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := index; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !used[candidate] {
			return candidate
		}
	}
}
