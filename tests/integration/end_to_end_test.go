package integration

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	igerrors "shutter/pkg/errors"
	"shutter/pkg/metadata"
	"shutter/pkg/scraper"
	"shutter/pkg/storage"
)

const firstTimestamp = 1500000000

// TestEndToEndProfileAndDownload drives fetch, decode, download and metadata
func TestEndToEndProfileAndDownload(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{
		Username:       "peterdn",
		FullName:       strPtr("Peter"),
		Biography:      strPtr("Photos of things"),
		ExternalURL:    strPtr("https://peterdn.com"),
		HasPicture:     true,
		PhotoCount:     5,
		FirstTimestamp: firstTimestamp,
	})

	cfg := helper.CreateTestConfig()
	s := scraper.New(cfg, helper.Logger())
	ctx := context.Background()

	profile, err := s.GetProfile(ctx, "peterdn")
	require.NoError(t, err)

	assert.Equal(t, "peterdn", profile.Username)
	assert.Equal(t, "Peter", *profile.FullName)
	assert.Equal(t, "Photos of things", *profile.Biography)
	assert.Equal(t, "https://peterdn.com", *profile.ExternalURL)
	require.NotNil(t, profile.ProfilePic)
	assert.Equal(t, mockServer.GetURL()+"/photos/peterdn/avatar.jpg", profile.ProfilePic.URL)
	require.Len(t, profile.Images, 5)
	for i, img := range profile.Images {
		assert.Equal(t, mockServer.PhotoURL("peterdn", i), img.URL)
		assert.Equal(t, int64(firstTimestamp+i*60), img.UploadedAt.Unix())
	}

	outputDir := cfg.Output.UserDirectory("peterdn")
	manager, err := storage.NewManager(outputDir)
	require.NoError(t, err)

	require.NoError(t, s.DownloadImages(ctx, profile, manager.Destination()))

	assert.Len(t, helper.ListImages(outputDir), 5)
	for i := 0; i < 5; i++ {
		path := filepath.Join(outputDir, fmt.Sprintf("%d.jpg", firstTimestamp+i*60))
		helper.AssertFileContains(path, PhotoContent(fmt.Sprintf("/photos/peterdn/%d.jpg", i)))
	}

	require.NoError(t, metadata.FromProfile(profile).Save(outputDir))
	meta, err := metadata.Load(outputDir)
	require.NoError(t, err)
	assert.Equal(t, "peterdn", meta.Username)
	require.Len(t, meta.Images, 5)
	assert.Equal(t, fmt.Sprintf("%d.jpg", firstTimestamp), meta.Images[0].FileName)
}

func TestPrivateProfile(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{Username: "hidden", IsPrivate: true, PhotoCount: 12})

	cfg := helper.CreateTestConfig()
	s := scraper.New(cfg, nil)

	profile, err := s.GetProfile(context.Background(), "hidden")
	require.NoError(t, err)

	assert.True(t, profile.IsPrivate)
	assert.Empty(t, profile.Images)
	assert.Nil(t, profile.FullName)
	assert.Nil(t, profile.ProfilePic)

	manager, err := storage.NewManager(cfg.Output.UserDirectory("hidden"))
	require.NoError(t, err)
	assert.NoError(t, s.DownloadImages(context.Background(), profile, manager.Destination()))
	assert.Equal(t, 0, mockServer.GetPhotoRequestCount())
}

func TestErrorTaxonomy(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{Username: "busy"})
	mockServer.SetErrorResponse("/busy/", http.StatusServiceUnavailable)
	mockServer.SetRawPage("loginwall", "<html><body><form action=\"/accounts/login/\"></form></body></html>")
	mockServer.SetRawPage("truncated", "<script>window._sharedData = {\"entry_data\":\n{}};</script>")
	mockServer.SetRawPage("redesigned", "<script>window._sharedData = {\"entry_data\":{\"ProfilePage\":[{\"graphql\":{\"user\":null}}]}};</script>")
	mockServer.SetRawPage("trailing", "<script>window._sharedData = {\"a\":1};</script><script>boot({\"b\":2});</script>")
	mockServer.SetRawPage("partial", "<script>window._sharedData = {\"entry_data\":{\"ProfilePage\":[{\"graphql\":{\"user\":{\"username\":\"partial\",\"is_private\":false}}}]}};</script>")

	s := scraper.New(helper.CreateTestConfig(), nil)

	tests := []struct {
		username string
		wantErr  error
		wantCode int
	}{
		{"ghost", igerrors.ErrUserNotFound, http.StatusNotFound},
		{"busy", igerrors.ErrHTTPRequest, http.StatusServiceUnavailable},
		{"loginwall", igerrors.ErrProfileDataNotFound, 0},
		{"truncated", igerrors.ErrProfileDataDecodeFailed, 0},
		{"redesigned", igerrors.ErrProfileJSONInvalid, 0},
		{"trailing", igerrors.ErrProfileJSONParse, 0},
		{"partial", igerrors.ErrProfileJSONParse, 0},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			profile, err := s.GetProfile(context.Background(), tt.username)
			assert.Nil(t, profile)
			require.ErrorIs(t, err, tt.wantErr)

			var igErr *igerrors.Error
			require.ErrorAs(t, err, &igErr)
			assert.Equal(t, tt.wantCode, igErr.Code)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()
	mockServer.Close()

	_, err := scraper.New(cfg, nil).GetProfile(context.Background(), "peterdn")
	assert.ErrorIs(t, err, igerrors.ErrNetwork)
}

func TestRequestTimeout(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{Username: "slow"})
	mockServer.SetDelay("/slow/", 500*time.Millisecond)

	cfg := helper.CreateTestConfig()
	cfg.Instagram.Timeout = 50 * time.Millisecond

	_, err := scraper.New(cfg, nil).GetProfile(context.Background(), "slow")
	assert.ErrorIs(t, err, igerrors.ErrNetwork)
}

func TestPartialDownloadFailure(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{Username: "peterdn", PhotoCount: 3, FirstTimestamp: firstTimestamp})
	mockServer.SetErrorResponse("/photos/peterdn/1.jpg", http.StatusForbidden)

	cfg := helper.CreateTestConfig()
	cfg.Download.ConcurrentDownloads = 2
	s := scraper.New(cfg, nil)

	profile, err := s.GetProfile(context.Background(), "peterdn")
	require.NoError(t, err)

	outputDir := cfg.Output.UserDirectory("peterdn")
	manager, err := storage.NewManager(outputDir)
	require.NoError(t, err)

	err = s.DownloadImages(context.Background(), profile, manager.Destination())
	require.Error(t, err)

	var downloadErr *igerrors.DownloadError
	require.ErrorAs(t, err, &downloadErr)
	assert.Equal(t, mockServer.PhotoURL("peterdn", 1), downloadErr.URL)
	assert.ErrorIs(t, err, igerrors.ErrHTTPRequest)

	assert.ElementsMatch(t, []string{
		fmt.Sprintf("%d.jpg", firstTimestamp),
		fmt.Sprintf("%d.jpg", firstTimestamp+120),
	}, helper.ListImages(outputDir))
	helper.AssertFileNotExists(filepath.Join(outputDir, fmt.Sprintf("%d.jpg", firstTimestamp+60)))
}

func TestBoundedConcurrency(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{Username: "busy", PhotoCount: 12, FirstTimestamp: firstTimestamp})
	mockServer.SetPhotoDelay("busy", 12, 30*time.Millisecond)

	cfg := helper.CreateTestConfig()
	cfg.Download.ConcurrentDownloads = 3
	s := scraper.New(cfg, nil)

	profile, err := s.GetProfile(context.Background(), "busy")
	require.NoError(t, err)

	manager, err := storage.NewManager(cfg.Output.UserDirectory("busy"))
	require.NoError(t, err)

	require.NoError(t, s.DownloadImages(context.Background(), profile, manager.Destination()))

	assert.Equal(t, 12, mockServer.GetPhotoRequestCount())
	assert.LessOrEqual(t, mockServer.GetMaxConcurrentPhotos(), 3)
	assert.Len(t, manager.Saved(), 12)
}

func TestCancelledDownload(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{Username: "peterdn", PhotoCount: 6, FirstTimestamp: firstTimestamp})
	mockServer.SetPhotoDelay("peterdn", 6, time.Second)

	cfg := helper.CreateTestConfig()
	cfg.Download.ConcurrentDownloads = 2
	s := scraper.New(cfg, nil)

	profile, err := s.GetProfile(context.Background(), "peterdn")
	require.NoError(t, err)

	outputDir := cfg.Output.UserDirectory("peterdn")
	manager, err := storage.NewManager(outputDir)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = s.DownloadImages(ctx, profile, manager.Destination())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "cancellation should abort in-flight requests")
	assert.Empty(t, helper.ListImages(outputDir))
}

func TestCoreLogsOnlyAtDebug(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	mockServer.AddProfile(MockProfile{Username: "peterdn", PhotoCount: 2, FirstTimestamp: firstTimestamp})
	mockServer.SetErrorResponse("/photos/peterdn/0.jpg", http.StatusNotFound)

	cfg := helper.CreateTestConfig()
	s := scraper.New(cfg, helper.Logger())

	profile, err := s.GetProfile(context.Background(), "peterdn")
	require.NoError(t, err)
	manager, err := storage.NewManager(cfg.Output.UserDirectory("peterdn"))
	require.NoError(t, err)
	_ = s.DownloadImages(context.Background(), profile, manager.Destination())

	messages := helper.Logger().GetMessages()
	require.NotEmpty(t, messages)
	for _, msg := range messages {
		assert.Equal(t, "DEBUG", msg.Level, "unexpected %s message %q", msg.Level, msg.Message)
	}
	assert.True(t, helper.Logger().HasMessage("profile decoded"))
}
