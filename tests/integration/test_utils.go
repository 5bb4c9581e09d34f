package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shutter/pkg/config"
	"shutter/pkg/logger"
)

// TestHelper provides common test utilities
type TestHelper struct {
	t          *testing.T
	mockServer *MockInstagramServer
	tempDir    string
	logger     *logger.TestLogger
}

// NewTestHelper creates a new test helper; cleanup is registered with t
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{
		t:       t,
		tempDir: t.TempDir(),
		logger:  logger.NewTestLogger(),
	}
}

// SetupMockServer starts the mock upstream
func (h *TestHelper) SetupMockServer() *MockInstagramServer {
	h.mockServer = NewMockInstagramServer()
	h.t.Cleanup(h.mockServer.Close)
	return h.mockServer
}

// GetTempDir returns the temporary directory for test files
func (h *TestHelper) GetTempDir() string {
	return h.tempDir
}

// Logger returns the capturing logger shared by the test
func (h *TestHelper) Logger() *logger.TestLogger {
	return h.logger
}

// CreateTestConfig creates a configuration pointed at the mock server
func (h *TestHelper) CreateTestConfig() *config.Config {
	cfg := config.DefaultConfig()

	cfg.Instagram.BaseURL = h.mockServer.GetURL()
	cfg.Instagram.UserAgent = "TestBot/1.0"
	cfg.Instagram.Timeout = 5 * time.Second

	cfg.Download.ConcurrentDownloads = 3

	cfg.Output.BaseDirectory = filepath.Join(h.tempDir, "downloads")
	cfg.Output.CreateUserFolders = true

	if err := cfg.Validate(); err != nil {
		h.t.Fatalf("Test configuration is invalid: %v", err)
	}
	return cfg
}

// AssertFileContains checks if a file holds exactly expected
func (h *TestHelper) AssertFileContains(path string, expected []byte) {
	h.t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		h.t.Errorf("Failed to read file %s: %v", path, err)
		return
	}

	if string(content) != string(expected) {
		h.t.Errorf("File content mismatch. Expected: %s, Got: %s", expected, content)
	}
}

// AssertFileNotExists checks if a file does not exist
func (h *TestHelper) AssertFileNotExists(path string) {
	h.t.Helper()
	if _, err := os.Stat(path); err == nil {
		h.t.Errorf("Expected file to not exist: %s", path)
	}
}

// ListImages returns the .jpg files in dir
func (h *TestHelper) ListImages(dir string) []string {
	h.t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		h.t.Fatalf("Failed to read directory %s: %v", dir, err)
	}

	var images []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jpg") {
			images = append(images, entry.Name())
		}
	}
	return images
}

func strPtr(s string) *string { return &s }
