// Package attachments flattens the activity trees of tests into attachment records.
package attachments

import (
	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
)

const defaultName = "Unknown"

// PayloadResolver reads an attachment payload by its reference id.
type PayloadResolver interface {
	Payload(id string) ([]byte, bool)
}

// Walk returns the attachments of the activities in pre-order: the attachments of an activity
// come before the ones of its sub-activities. Every attachment belongs to testIdentifier
// and carries the title of the activity it was recorded in.
func Walk(testIdentifier string, activities []xcresult.ActivitySummary, payloads PayloadResolver) []model.Attachment {
	var attachments []model.Attachment
	for _, activity := range activities {
		attachments = append(attachments, walkActivity(testIdentifier, activity, payloads)...)
	}
	return attachments
}

func walkActivity(testIdentifier string, activity xcresult.ActivitySummary, payloads PayloadResolver) []model.Attachment {
	var attachments []model.Attachment
	for _, attachment := range activity.Attachments.Values {
		attachments = append(attachments, convert(testIdentifier, activity.Title.Value, attachment, payloads))
	}

	for _, subactivity := range activity.Subactivities.Values {
		attachments = append(attachments, walkActivity(testIdentifier, subactivity, payloads)...)
	}
	return attachments
}

func convert(testIdentifier, activityTitle string, attachment xcresult.Attachment, payloads PayloadResolver) model.Attachment {
	name := attachment.Name.Value
	if name == "" {
		name = defaultName
	}

	data := []byte{}
	if id := attachment.PayloadID(); id != "" {
		if payload, ok := payloads.Payload(id); ok && payload != nil {
			data = payload
		}
	}

	return model.Attachment{
		Name:                  name,
		Filename:              optional(attachment.Filename.Value),
		UniformTypeIdentifier: optional(attachment.UniformTypeIdentifier.Value),
		Timestamp:             attachment.Time(),
		Data:                  data,
		TestIdentifier:        testIdentifier,
		ActivityTitle:         optional(activityTitle),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
