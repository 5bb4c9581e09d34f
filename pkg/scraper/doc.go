// Package scraper is the entry point for retrieving public profiles.
//
// GetProfile runs the acquisition pipeline: it fetches the profile page,
// extracts the embedded shared data, decodes the user record and projects
// it into a models.Profile. The pipeline is sequential and stateless, and
// any stage's *errors.Error is returned as is.
//
// DownloadImages hands a profile's images to a bounded worker pool. The
// caller decides where each image is written:
//
//	s := scraper.New(cfg, log)
//	profile, err := s.GetProfile(ctx, "peterdn")
//	if err != nil {
//	    return err
//	}
//	manager, err := storage.NewManager("peterdn_images")
//	if err != nil {
//	    return err
//	}
//	err = s.DownloadImages(ctx, profile, manager.Destination())
//
// Only the images embedded in the profile page are downloaded; older
// posts that would need pagination are not.
package scraper
