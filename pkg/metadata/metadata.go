package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shutter/pkg/models"
	"shutter/pkg/storage"
)

// FileName is the sidecar written next to downloaded images
const FileName = "profile.json"

// ProfileMetadata describes a saved profile
type ProfileMetadata struct {
	Username      string  `json:"username"`
	FullName      *string `json:"full_name,omitempty"`
	Biography     *string `json:"biography,omitempty"`
	ExternalURL   *string `json:"external_url,omitempty"`
	ProfilePicURL *string `json:"profile_pic_url,omitempty"`
	IsPrivate     bool    `json:"is_private"`

	Images []ImageMetadata `json:"images"`

	DownloadedAt time.Time `json:"downloaded_at"`
}

// ImageMetadata describes one saved image
type ImageMetadata struct {
	URL      string    `json:"url"`
	FileName string    `json:"file_name"`
	TakenAt  time.Time `json:"taken_at"`
}

// FromProfile converts a profile to its sidecar representation
func FromProfile(p *models.Profile) *ProfileMetadata {
	meta := &ProfileMetadata{
		Username:     p.Username,
		FullName:     p.FullName,
		Biography:    p.Biography,
		ExternalURL:  p.ExternalURL,
		IsPrivate:    p.IsPrivate,
		Images:       make([]ImageMetadata, 0, len(p.Images)),
		DownloadedAt: time.Now().UTC(),
	}

	if p.ProfilePic != nil {
		url := p.ProfilePic.URL
		meta.ProfilePicURL = &url
	}

	for _, img := range p.Images {
		meta.Images = append(meta.Images, ImageMetadata{
			URL:      img.URL,
			FileName: storage.FileName(img),
			TakenAt:  img.UploadedAt,
		})
	}

	return meta
}

// Save writes the metadata to profile.json inside dir
func (m *ProfileMetadata) Save(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}

// Load reads profile.json from dir
func Load(dir string) (*ProfileMetadata, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta ProfileMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &meta, nil
}

// Path returns the sidecar location for dir
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists checks if a sidecar exists in dir
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}
