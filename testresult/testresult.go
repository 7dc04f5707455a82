// Package testresult uploads the JUnit report of a parsed result bundle to the Bitrise test reports API.
package testresult

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// maxTotalXMLSize limits the total size of all XML files uploaded in a single run
const maxTotalXMLSize = 100 * 1024 * 1024 // 100 MiB

const resultFileName = "test_result.xml"

var assetTypes = []string{".jpg", ".jpeg", ".png", ".txt", ".log", ".mp4", ".webm", ".ogg"}

// FileInfo ...
type FileInfo struct {
	FileName string `json:"filename"`
	FileSize int    `json:"filesize"`
}

// UploadURL ...
type UploadURL struct {
	FileName string `json:"filename"`
	URL      string `json:"upload_url"`
}

// UploadRequest ...
type UploadRequest struct {
	Name   string                    `json:"name"`
	Step   models.TestResultStepInfo `json:"step_info"`
	Assets []FileInfo                `json:"assets"`
	FileInfo
}

// UploadResponse ...
type UploadResponse struct {
	ID     string      `json:"id"`
	Assets []UploadURL `json:"assets"`
	UploadURL
}

// Result is a JUnit report with the attachment files uploaded next to it.
// AttachmentPaths are relative to AttachmentsDir.
type Result struct {
	Name            string
	XMLContent      []byte
	AttachmentsDir  string
	AttachmentPaths []string
	StepInfo        models.TestResultStepInfo
}

// Results ...
type Results []Result

// NewResult creates a result from a JUnit report and the supported attachment files of attachmentsDir.
// An empty attachmentsDir means the result has no attachments.
func NewResult(name string, xmlContent []byte, attachmentsDir string, stepInfo models.TestResultStepInfo, logger log.Logger) Result {
	result := Result{
		Name:           name,
		XMLContent:     xmlContent,
		AttachmentsDir: attachmentsDir,
		StepInfo:       stepInfo,
	}
	if attachmentsDir != "" {
		result.AttachmentPaths = findSupportedAttachments(attachmentsDir, logger)
	}
	return result
}

// IsSupportedAssetType reports whether the test reports API accepts the file as a test attachment.
func IsSupportedAssetType(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, assetType := range assetTypes {
		if ext == assetType {
			return true
		}
	}
	return false
}

func findSupportedAttachments(dir string, logger log.Logger) []string {
	exists, err := pathutil.IsDirExists(dir)
	if err != nil {
		logger.Warnf("Failed to check attachments dir (%s): %s", dir, err)
		return nil
	} else if !exists {
		return nil
	}

	var attachmentPaths []string
	if err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsSupportedAssetType(path) {
			return nil
		}

		relativePath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		attachmentPaths = append(attachmentPaths, relativePath)
		return nil
	}); err != nil {
		logger.Warnf("Failed to walk attachments dir (%s): %s", dir, err)
		return nil
	}

	return attachmentPaths
}

// Uploader ...
type Uploader struct {
	client *retryablehttp.Client
	logger log.Logger
}

// NewUploader ...
func NewUploader(logger log.Logger) Uploader {
	return Uploader{
		client: retryhttp.NewClient(logger),
		logger: logger,
	}
}

// Upload creates a test report for every result of the build, uploads its XML and attachments and then finalises it.
func (u Uploader) Upload(results Results, apiToken, endpointBaseURL, appSlug, buildSlug string) error {
	if size := results.totalXMLSize(); size > maxTotalXMLSize {
		return fmt.Errorf("the total size of the test result XML files (%d MiB) exceeds the maximum allowed size of 100 MiB", size/1024/1024)
	}

	for _, result := range results {
		u.logger.Printf("Uploading: %s", result.Name)

		if err := u.upload(result, apiToken, endpointBaseURL, appSlug, buildSlug); err != nil {
			return err
		}
	}

	return nil
}

func (u Uploader) upload(result Result, apiToken, endpointBaseURL, appSlug, buildSlug string) error {
	uploadReq := UploadRequest{
		FileInfo: FileInfo{
			FileName: resultFileName,
			FileSize: len(result.XMLContent),
		},
		Name:   result.Name,
		Step:   result.StepInfo,
		Assets: []FileInfo{},
	}
	for _, asset := range result.AttachmentPaths {
		fi, err := os.Stat(filepath.Join(result.AttachmentsDir, asset))
		if err != nil {
			return fmt.Errorf("failed to get file info for %s: %w", asset, err)
		}
		uploadReq.Assets = append(uploadReq.Assets, FileInfo{
			FileName: filepath.ToSlash(asset),
			FileSize: int(fi.Size()),
		})
	}

	uploadRequestBodyData, err := json.Marshal(uploadReq)
	if err != nil {
		return fmt.Errorf("failed to json encode upload request: %w", err)
	}

	var (
		uploadResponse   UploadResponse
		uploadRequestURL = fmt.Sprintf("%s/apps/%s/builds/%s/test_reports", endpointBaseURL, appSlug, buildSlug)
	)
	if err := u.call(apiToken, http.MethodPost, uploadRequestURL, bytes.NewReader(uploadRequestBodyData), &uploadResponse); err != nil {
		return fmt.Errorf("failed to initialise test result: %w", err)
	}

	if err := u.call("", http.MethodPut, uploadResponse.URL, bytes.NewReader(result.XMLContent), nil); err != nil {
		return fmt.Errorf("failed to upload test result xml: %w", err)
	}

	for _, upload := range uploadResponse.Assets {
		if err := u.uploadAttachment(result, upload); err != nil {
			return err
		}
	}

	uploadPatchURL := fmt.Sprintf("%s/apps/%s/builds/%s/test_reports/%s", endpointBaseURL, appSlug, buildSlug, uploadResponse.ID)
	if err := u.call(apiToken, http.MethodPatch, uploadPatchURL, strings.NewReader(`{"uploaded":true}`), nil); err != nil {
		return fmt.Errorf("failed to finalise test result: %w", err)
	}

	return nil
}

func (u Uploader) uploadAttachment(result Result, upload UploadURL) error {
	for _, asset := range result.AttachmentPaths {
		if filepath.ToSlash(asset) != upload.FileName {
			continue
		}

		pth := filepath.Join(result.AttachmentsDir, asset)
		data, err := os.ReadFile(pth)
		if err != nil {
			return fmt.Errorf("failed to read test result attachment (%s): %w", pth, err)
		}
		if err := u.call("", http.MethodPut, upload.URL, bytes.NewReader(data), nil); err != nil {
			return fmt.Errorf("failed to upload test result attachment (%s): %w", pth, err)
		}
		return nil
	}

	u.logger.Warnf("No attachment found for upload url of %s", upload.FileName)
	return nil
}

func (u Uploader) call(apiToken, method, url string, input io.Reader, output interface{}) error {
	if apiToken != "" {
		url = url + "/" + apiToken
	}
	req, err := retryablehttp.NewRequest(method, url, input)
	if err != nil {
		return err
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			u.logger.Warnf("Failed to close body: %s", err)
		}
	}()

	if resp.StatusCode < 200 || 299 < resp.StatusCode {
		bodyData, err := io.ReadAll(resp.Body)
		if err != nil {
			u.logger.Warnf("Failed to read response: %s", err)
			return fmt.Errorf("unsuccessful status code: %d", resp.StatusCode)
		}
		return fmt.Errorf("unsuccessful status code: %d, response: %s", resp.StatusCode, bodyData)
	}

	if output != nil {
		return json.NewDecoder(resp.Body).Decode(output)
	}
	return nil
}

func (results Results) totalXMLSize() int {
	totalSize := 0
	for _, result := range results {
		totalSize += len(result.XMLContent)
	}
	return totalSize
}
