package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"shutter/pkg/models"
)

// ImageExtension is appended to every saved image
const ImageExtension = ".jpg"

// Manager owns an output directory and names images inside it
type Manager struct {
	outputDir string
	saved     []string
	mu        sync.Mutex
}

// NewManager creates the output directory if needed. It fails when the
// path exists and is not a directory.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// FileName returns the file name for an image: its upload time in Unix
// seconds. Images sharing a timestamp share a name; the last write wins.
func FileName(img models.PostImage) string {
	return strconv.FormatInt(img.UploadedAt.Unix(), 10) + ImageExtension
}

// Path returns where img is saved
func (m *Manager) Path(img models.PostImage) string {
	return filepath.Join(m.outputDir, FileName(img))
}

// Create opens an atomic writer for img. Data lands in a temporary file
// in the output directory and is renamed into place on Close. Abort
// discards it.
func (m *Manager) Create(img models.PostImage) (*AtomicFile, error) {
	target := m.Path(img)

	tmp, err := os.CreateTemp(m.outputDir, "."+FileName(img)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	return &AtomicFile{file: tmp, target: target, manager: m}, nil
}

// Destination adapts Create to the downloader's destination signature
func (m *Manager) Destination() func(models.PostImage) (io.WriteCloser, error) {
	return func(img models.PostImage) (io.WriteCloser, error) {
		return m.Create(img)
	}
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Saved returns the paths committed so far
func (m *Manager) Saved() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.saved...)
}

func (m *Manager) recordSaved(path string) {
	m.mu.Lock()
	m.saved = append(m.saved, path)
	m.mu.Unlock()
}

// ErrFileFinished is returned when an AtomicFile is used after Close or Abort
var ErrFileFinished = errors.New("file already committed or aborted")

// AtomicFile is a temporary file that becomes visible under its final
// name only once Close succeeds
type AtomicFile struct {
	file     *os.File
	target   string
	manager  *Manager
	finished bool
}

func (f *AtomicFile) Write(p []byte) (int, error) {
	if f.finished {
		return 0, ErrFileFinished
	}
	return f.file.Write(p)
}

// Close flushes the temporary file and renames it over the target
func (f *AtomicFile) Close() error {
	if f.finished {
		return ErrFileFinished
	}
	f.finished = true

	tempFile := f.file.Name()
	if err := f.file.Close(); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempFile, f.target); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	f.manager.recordSaved(f.target)
	return nil
}

// Abort removes the temporary file without touching the target
func (f *AtomicFile) Abort() error {
	if f.finished {
		return nil
	}
	f.finished = true

	f.file.Close()
	if err := os.Remove(f.file.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temporary file: %w", err)
	}
	return nil
}

// Target returns the final path of the file
func (f *AtomicFile) Target() string {
	return f.target
}
