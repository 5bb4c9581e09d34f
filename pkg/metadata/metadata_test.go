package metadata

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutter/pkg/models"
)

func strPtr(s string) *string { return &s }

func testProfile() *models.Profile {
	return &models.Profile{
		Username:   "peterdn",
		FullName:   strPtr("Peter"),
		ProfilePic: &models.ProfilePicture{URL: "https://cdn.example/pic.jpg"},
		Images: []models.PostImage{
			models.NewPostImage("https://cdn.example/2.jpg", 1500000100),
			models.NewPostImage("https://cdn.example/1.jpg", 1500000000),
		},
	}
}

func TestFromProfile(t *testing.T) {
	meta := FromProfile(testProfile())

	assert.Equal(t, "peterdn", meta.Username)
	require.NotNil(t, meta.FullName)
	assert.Equal(t, "Peter", *meta.FullName)
	assert.Nil(t, meta.Biography)
	require.NotNil(t, meta.ProfilePicURL)
	assert.Equal(t, "https://cdn.example/pic.jpg", *meta.ProfilePicURL)
	assert.False(t, meta.DownloadedAt.IsZero())

	require.Len(t, meta.Images, 2)
	assert.Equal(t, "https://cdn.example/2.jpg", meta.Images[0].URL)
	assert.Equal(t, "1500000100.jpg", meta.Images[0].FileName)
	assert.Equal(t, int64(1500000100), meta.Images[0].TakenAt.Unix())
}

func TestFromProfileWithoutPicture(t *testing.T) {
	meta := FromProfile(&models.Profile{Username: "u"})

	assert.Nil(t, meta.ProfilePicURL)
	assert.NotNil(t, meta.Images, "images should encode as an empty list")
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))

	meta := FromProfile(testProfile())
	require.NoError(t, meta.Save(dir))
	assert.True(t, Exists(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, meta.Username, loaded.Username)
	assert.Equal(t, *meta.FullName, *loaded.FullName)
	assert.Nil(t, loaded.Biography)
	assert.Equal(t, meta.Images[1].FileName, loaded.Images[1].FileName)
	assert.True(t, meta.Images[1].TakenAt.Equal(loaded.Images[1].TakenAt))
	assert.True(t, meta.DownloadedAt.Equal(loaded.DownloadedAt))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("{not json"), 0644))
	_, err = Load(dir)
	assert.Error(t, err)
}
