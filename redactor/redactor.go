// Package redactor removes secret values from rendered reports and text attachments.
package redactor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/redactwriter"
	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

// Redactor replaces the given secrets in rendered reports and attachment payloads.
type Redactor struct {
	logger  log.Logger
	secrets []string
}

// New ...
func New(secrets []string, logger log.Logger) Redactor {
	return Redactor{
		logger:  logger,
		secrets: secrets,
	}
}

// SecretsFromEnv returns the non-empty values of the environment variables listed in keyList.
// Keys are separated by commas or newlines.
func SecretsFromEnv(keyList string, repository env.Repository) []string {
	var secrets []string
	for _, key := range strings.FieldsFunc(keyList, func(r rune) bool { return r == ',' || r == '\n' }) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if value := repository.Get(key); value != "" {
			secrets = append(secrets, value)
		}
	}
	return secrets
}

// Enabled reports whether there is any secret to redact.
func (r Redactor) Enabled() bool {
	return len(r.secrets) > 0
}

// Redact returns a copy of data with every secret replaced.
func (r Redactor) Redact(data []byte) ([]byte, error) {
	if !r.Enabled() {
		return data, nil
	}

	var buf bytes.Buffer
	if err := r.redact(bytes.NewReader(data), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RedactAttachments redacts the payload of log and text attachments, other attachments are returned as is.
func (r Redactor) RedactAttachments(attachments model.Attachments) (model.Attachments, error) {
	if !r.Enabled() {
		return attachments, nil
	}

	redacted := make(model.Attachments, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment.Kind() == model.KindLog {
			data, err := r.Redact(attachment.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to redact attachment (%s): %w", attachment.Name, err)
			}
			attachment.Data = data
		}
		redacted = append(redacted, attachment)
	}
	return redacted, nil
}

func (r Redactor) redact(source io.Reader, destination io.Writer) error {
	redactWriter := redactwriter.New(r.secrets, destination, r.logger)
	if _, err := io.Copy(redactWriter, source); err != nil {
		return fmt.Errorf("failed to redact secrets: %w", err)
	}

	if err := redactWriter.Close(); err != nil {
		return fmt.Errorf("failed to close redact writer: %w", err)
	}
	return nil
}
