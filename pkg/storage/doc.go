// Package storage writes downloaded images into an output directory.
//
// Images are named after their upload time in Unix seconds with a .jpg
// extension. Every write goes to a temporary file in the same directory
// and is renamed into place on Close, so an interrupted or failed
// download never leaves a truncated image under its final name.
//
// Usage:
//
//	manager, err := storage.NewManager("peterdn_images")
//	if err != nil {
//	    return err
//	}
//	err = pool.DownloadAll(ctx, profile.Images, manager.Destination())
package storage
