package testresult

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testResponseID = "mock-test-id"
	testToken      = "addon-token"
)

type testReportsServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []UploadRequest
	uploads  map[string][]byte
	patched  bool
}

func newTestReportsServer(t *testing.T) *testReportsServer {
	s := &testReportsServer{uploads: map[string][]byte{}}

	router := mux.NewRouter()
	router.HandleFunc("/test/apps/{app_slug}/builds/{build_slug}/test_reports/{access_token}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		assert.Equal(t, "app-slug", vars["app_slug"])
		assert.Equal(t, "build-slug", vars["build_slug"])
		assert.Equal(t, testToken, vars["access_token"])

		var uploadReq UploadRequest
		if err := json.NewDecoder(r.Body).Decode(&uploadReq); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, uploadReq)
		s.mu.Unlock()

		response := UploadResponse{
			ID:        testResponseID,
			UploadURL: UploadURL{FileName: uploadReq.FileName, URL: s.URL + "/teststorage/" + uploadReq.FileName},
		}
		for _, asset := range uploadReq.Assets {
			response.Assets = append(response.Assets, UploadURL{
				FileName: asset.FileName,
				URL:      s.URL + "/teststorage/" + asset.FileName,
			})
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}).Methods(http.MethodPost)

	router.HandleFunc("/teststorage/{file_name:.+}", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		s.mu.Lock()
		s.uploads[mux.Vars(r)["file_name"]] = data
		s.mu.Unlock()
	}).Methods(http.MethodPut)

	router.HandleFunc("/test/apps/{app_slug}/builds/{build_slug}/test_reports/{id}/{access_token}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		assert.Equal(t, testResponseID, vars["id"])
		assert.Equal(t, testToken, vars["access_token"])

		s.mu.Lock()
		s.patched = true
		s.mu.Unlock()
	}).Methods(http.MethodPatch)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)

	return s
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	for name, content := range files {
		pth := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0755))
		require.NoError(t, os.WriteFile(pth, []byte(content), 0644))
	}
}

func TestUploader_Upload(t *testing.T) {
	attachmentsDir := t.TempDir()
	writeFiles(t, attachmentsDir, map[string]string{
		"login.png":               "png data",
		"session.log":             "log data",
		"login.png.metadata.json": "{}",
		"screens/home.jpg":        "jpg data",
	})

	stepInfo := models.TestResultStepInfo{ID: "xcresult-report", Title: "Xcode Result Report", Version: "1.0.0", Number: 3}
	xmlContent := []byte(`<?xml version="1.0" encoding="UTF-8"?><testsuites></testsuites>`)
	result := NewResult("MyApp Tests", xmlContent, attachmentsDir, stepInfo, log.NewLogger())
	require.ElementsMatch(t, []string{"login.png", "session.log", filepath.Join("screens", "home.jpg")}, result.AttachmentPaths)

	server := newTestReportsServer(t)

	err := NewUploader(log.NewLogger()).Upload(Results{result}, testToken, server.URL+"/test", "app-slug", "build-slug")
	require.NoError(t, err)

	require.Len(t, server.requests, 1)
	req := server.requests[0]
	require.Equal(t, "MyApp Tests", req.Name)
	require.Equal(t, stepInfo, req.Step)
	require.Equal(t, FileInfo{FileName: "test_result.xml", FileSize: len(xmlContent)}, req.FileInfo)
	require.ElementsMatch(t, []FileInfo{
		{FileName: "login.png", FileSize: 8},
		{FileName: "session.log", FileSize: 8},
		{FileName: "screens/home.jpg", FileSize: 8},
	}, req.Assets)

	require.Equal(t, map[string][]byte{
		"test_result.xml":  xmlContent,
		"login.png":        []byte("png data"),
		"session.log":      []byte("log data"),
		"screens/home.jpg": []byte("jpg data"),
	}, server.uploads)
	require.True(t, server.patched)
}

func TestUploader_Upload_TooLarge(t *testing.T) {
	results := Results{
		{Name: "huge", XMLContent: make([]byte, maxTotalXMLSize+1)},
	}

	err := NewUploader(log.NewLogger()).Upload(results, testToken, "http://localhost", "app-slug", "build-slug")
	require.EqualError(t, err, "the total size of the test result XML files (100 MiB) exceeds the maximum allowed size of 100 MiB")
}

func TestNewResult_WithoutAttachments(t *testing.T) {
	result := NewResult("MyApp Tests", nil, "", models.TestResultStepInfo{}, log.NewLogger())
	require.Empty(t, result.AttachmentPaths)

	result = NewResult("MyApp Tests", nil, filepath.Join(t.TempDir(), "missing"), models.TestResultStepInfo{}, log.NewLogger())
	require.Empty(t, result.AttachmentPaths)
}

func TestIsSupportedAssetType(t *testing.T) {
	tests := []struct {
		fileName string
		want     bool
	}{
		{fileName: "screenshot.png", want: true},
		{fileName: "screenshot.PNG", want: true},
		{fileName: "photo.jpeg", want: true},
		{fileName: "recording.mp4", want: true},
		{fileName: "output.log", want: true},
		{fileName: "screenshot.png.metadata.json", want: false},
		{fileName: "attachment_0", want: false},
		{fileName: "archive.zip", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupportedAssetType(tt.fileName))
		})
	}
}
