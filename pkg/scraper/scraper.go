package scraper

import (
	"context"

	"shutter/internal/downloader"
	"shutter/pkg/config"
	"shutter/pkg/instagram"
	"shutter/pkg/logger"
	"shutter/pkg/models"
)

// Scraper retrieves public profiles and downloads their images
type Scraper struct {
	client     InstagramClient
	workers    int
	onDownload func(downloader.DownloadResult)
	logger     logger.Logger
}

// New creates a Scraper talking to the site described by cfg. A nil
// logger keeps the scraper silent.
func New(cfg *config.Config, log logger.Logger) *Scraper {
	client := instagram.NewClient(cfg.Instagram.Timeout, log)
	client.SetBaseURL(cfg.Instagram.BaseURL)
	if cfg.Instagram.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Instagram.UserAgent)
	}

	return NewWithClient(client, cfg.Download.Workers(), log)
}

// NewWithClient creates a Scraper over an existing client. A non-positive
// worker count uses one worker per CPU.
func NewWithClient(client InstagramClient, workers int, log logger.Logger) *Scraper {
	return &Scraper{
		client:  client,
		workers: workers,
		logger:  logger.OrNop(log),
	}
}

// OnDownload registers a callback invoked after each image finishes
func (s *Scraper) OnDownload(fn func(downloader.DownloadResult)) {
	s.onDownload = fn
}

// GetProfile fetches, extracts and decodes the public profile of username.
// Errors from each stage are returned unchanged; nothing is cached.
func (s *Scraper) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	body, err := s.client.FetchProfilePage(ctx, username)
	if err != nil {
		return nil, err
	}

	blob, err := instagram.ExtractSharedData(body)
	if err != nil {
		return nil, err
	}

	raw, err := instagram.DecodeProfile(blob)
	if err != nil {
		return nil, err
	}

	profile := models.FromRaw(raw)

	s.logger.DebugWithFields("profile decoded", map[string]interface{}{
		"username":   profile.Username,
		"is_private": profile.IsPrivate,
		"images":     len(profile.Images),
	})

	return profile, nil
}

// DownloadImages downloads every image of profile into the writers dest
// returns. See downloader.WorkerPool.DownloadAll for failure semantics.
func (s *Scraper) DownloadImages(ctx context.Context, profile *models.Profile, dest downloader.DestinationFunc) error {
	pool := downloader.NewWorkerPool(s.workers, s.client, s.logger)
	if s.onDownload != nil {
		pool.OnResult(s.onDownload)
	}

	s.logger.DebugWithFields("downloading images", map[string]interface{}{
		"username": profile.Username,
		"images":   len(profile.Images),
		"workers":  pool.NumWorkers(),
	})

	return pool.DownloadAll(ctx, profile.Images, dest)
}

// GetProfile retrieves username's profile with the default configuration
func GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	return New(config.DefaultConfig(), nil).GetProfile(ctx, username)
}
