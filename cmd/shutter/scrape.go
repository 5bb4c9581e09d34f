package main

import (
	"context"
	"fmt"

	"shutter/internal/downloader"
	"shutter/pkg/config"
	"shutter/pkg/logger"
	"shutter/pkg/metadata"
	"shutter/pkg/models"
	"shutter/pkg/scraper"
	"shutter/pkg/storage"
	"shutter/pkg/ui"
)

// scrape fetches the profile and performs the requested actions
func scrape(ctx context.Context, cfg *config.Config, log logger.Logger, username string, printProfile, downloadImages bool) error {
	s := scraper.New(cfg, log)

	profile, err := s.GetProfile(ctx, username)
	if err != nil {
		log.WithError(err).Error("failed to get profile")
		return err
	}

	log.InfoWithFields("profile retrieved", map[string]interface{}{
		"is_private": profile.IsPrivate,
		"images":     len(profile.Images),
	})

	if printProfile {
		if err := ui.PrintProfile(profile); err != nil {
			return fmt.Errorf("failed to print profile: %w", err)
		}
	}

	if downloadImages {
		return download(ctx, s, cfg, log, profile)
	}

	return nil
}

// download saves every image into the user's output directory
func download(ctx context.Context, s *scraper.Scraper, cfg *config.Config, log logger.Logger, profile *models.Profile) error {
	outputDir := cfg.Output.UserDirectory(profile.Username)

	manager, err := storage.NewManager(outputDir)
	if err != nil {
		return err
	}

	ui.PrintInfo("Output directory", outputDir)
	fmt.Fprintf(ui.Output, "Downloading %d images...\n", len(profile.Images))

	tracker := ui.NewStatusTracker(len(profile.Images))
	s.OnDownload(func(result downloader.DownloadResult) {
		tracker.Record(result.Size, result.Error)
		tracker.PrintProgress(ui.Output)

		if result.Error != nil {
			log.WithError(result.Error).Warn("image download failed")
			return
		}
		log.DebugWithFields("image saved", map[string]interface{}{
			"file": storage.FileName(result.Job.Image),
			"size": result.Size,
		})
	})

	downloadErr := s.DownloadImages(ctx, profile, manager.Destination())
	if len(profile.Images) > 0 {
		fmt.Fprintln(ui.Output)
	}

	if cfg.Download.SaveMetadata {
		if metadata.Exists(outputDir) {
			log.Info("replacing existing metadata")
		}
		if err := metadata.FromProfile(profile).Save(outputDir); err != nil {
			log.WithError(err).Error("failed to save metadata")
			return err
		}
		log.InfoWithFields("metadata saved", map[string]interface{}{
			"path": metadata.Path(outputDir),
		})
	}

	log.InfoWithFields("download finished", map[string]interface{}{
		"completed": tracker.Completed,
		"failed":    tracker.Failed,
		"bytes":     tracker.Bytes,
	})

	if downloadErr != nil {
		ui.PrintWarning(tracker.Summary())
		return fmt.Errorf("%w:\n%w", errDownloadsFailed, downloadErr)
	}

	ui.PrintSuccess(tracker.Summary())
	return nil
}
