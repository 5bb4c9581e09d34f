package scraper

import (
	"context"
	"io"
)

// InstagramClient defines the upstream operations the scraper needs
type InstagramClient interface {
	FetchProfilePage(ctx context.Context, username string) (string, error)
	OpenMedia(ctx context.Context, url string) (io.ReadCloser, error)
}
