// Package api is the client of the html report endpoints of a build.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/log"
)

const (
	uploadAttempts  = 3
	buildTokenKey   = "BUILD_API_TOKEN"
	jsonContentType = "application/json; charset=UTF-8"
)

var uploadRetryWait = 5 * time.Second

// ClientAPI ...
type ClientAPI interface {
	CreateReport(params CreateReportParameters) (CreateReportResponse, error)
	UploadAsset(url, path, contentType string) error
	FinishReport(identifier string, allAssetsUploaded bool) error
}

// HTTPClient ...
//
//go:generate mockery --name HTTPClient --structname HttpClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client creates html reports of a build and uploads their assets to the returned storage urls.
type Client struct {
	logger     log.Logger
	httpClient HTTPClient
	buildURL   string
	authToken  string
}

// NewClient ...
func NewClient(buildURL, authToken string, logger log.Logger) Client {
	return Client{
		logger:     logger,
		httpClient: retry.NewHTTPClient().StandardClient(),
		buildURL:   buildURL,
		authToken:  authToken,
	}
}

// CreateReport registers a report with its assets, the response holds an upload url per asset.
func (c Client) CreateReport(params CreateReportParameters) (CreateReportResponse, error) {
	var response CreateReportResponse
	if err := c.doJSON(http.MethodPost, c.buildURL+"/html_reports.json", params, &response); err != nil {
		return CreateReportResponse{}, err
	}
	return response, nil
}

// FinishReport marks the report uploaded, a report with missing assets is not shown on the build page.
func (c Client) FinishReport(identifier string, allAssetsUploaded bool) error {
	params := struct {
		Uploaded bool `json:"is_uploaded"`
	}{Uploaded: allAssetsUploaded}

	return c.doJSON(http.MethodPatch, fmt.Sprintf("%s/html_reports/%s.json", c.buildURL, identifier), params, nil)
}

// UploadAsset uploads the file at path to a signed storage url, retrying failed attempts.
func (c Client) UploadAsset(url, path, contentType string) error {
	return retry.Times(uploadAttempts).Wait(uploadRetryWait).Try(func(attempt uint) error {
		if attempt > 0 {
			c.logger.Debugf("Retrying upload of %s (%d)", path, attempt)
		}
		return c.uploadAsset(url, path, contentType)
	})
}

func (c Client) uploadAsset(url, path, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open asset: %w", err)
	}
	defer c.close(file, path)

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	// A nil body sends a Content-Length of 0 for empty files.
	var body io.Reader
	if fileInfo.Size() > 0 {
		body = io.NopCloser(file)
	}

	req, err := http.NewRequest(http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// Content-Length is part of the signed url signature.
	req.ContentLength = fileInfo.Size()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload asset: %w", err)
	}
	defer c.close(resp.Body, "response body")

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			c.logger.Warnf("Failed to read response body: %s", err)
		}
		return fmt.Errorf("non success status code: %d, body: %s", resp.StatusCode, respBody)
	}

	return nil
}

// doJSON sends in as the json body of an authenticated request and decodes the response into out, when out is not nil.
func (c Client) doJSON(method, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", jsonContentType)
	// Header.Set would canonize the key.
	req.Header[buildTokenKey] = []string{c.authToken}

	c.dump("Request", func() ([]byte, error) { return httputil.DumpRequest(req, false) })

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer c.close(resp.Body, "response body")

	c.dump("Response", func() ([]byte, error) { return httputil.DumpResponse(resp, true) })

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, err := parseErrorMessage(resp.Body)
		if err != nil {
			c.logger.Warnf("Failed to parse error message from the response: %s", err)
		}
		return fmt.Errorf("request to %s failed: status code should be 2xx (%d): %s", resp.Request.URL, resp.StatusCode, message)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c Client) dump(kind string, dump func() ([]byte, error)) {
	b, err := dump()
	if err != nil {
		c.logger.Warnf("%s dump failed: %s", kind, err)
		return
	}
	c.logger.Debugf("%s dump: %s", kind, b)
}

func (c Client) close(closer io.Closer, name string) {
	if err := closer.Close(); err != nil {
		c.logger.Warnf("Failed to close %s: %s", name, err)
	}
}

func parseErrorMessage(body io.Reader) (string, error) {
	var response struct {
		Message string `json:"error_msg"`
	}
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return "", err
	}
	return response.Message, nil
}
