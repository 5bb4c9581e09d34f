package models

import (
	"time"

	"shutter/pkg/instagram"
)

// Profile is the caller-facing view of a public profile
type Profile struct {
	Username    string
	FullName    *string
	Biography   *string
	ExternalURL *string
	ProfilePic  *ProfilePicture
	IsPrivate   bool
	Images      []PostImage
}

// ProfilePicture is the high-definition profile picture
type ProfilePicture struct {
	URL string
}

// PostImage is one post's image in upstream order
type PostImage struct {
	URL        string
	UploadedAt time.Time
}

// NewPostImage builds a PostImage from a Unix timestamp in seconds
func NewPostImage(url string, takenAt int64) PostImage {
	return PostImage{
		URL:        url,
		UploadedAt: time.Unix(takenAt, 0).UTC(),
	}
}

// FromRaw projects a decoded upstream record into a Profile. Media edges
// keep their upstream order.
func FromRaw(raw *instagram.RawProfile) *Profile {
	var pic *ProfilePicture
	if raw.ProfilePicURLHD != nil {
		pic = &ProfilePicture{URL: *raw.ProfilePicURLHD}
	}

	edges := raw.EdgeOwnerToTimelineMedia.Edges
	images := make([]PostImage, 0, len(edges))
	for _, edge := range edges {
		images = append(images, NewPostImage(edge.Node.DisplayURL, edge.Node.TakenAtTimestamp))
	}

	return &Profile{
		Username:    raw.Username,
		FullName:    raw.FullName,
		Biography:   raw.Biography,
		ExternalURL: raw.ExternalURL,
		ProfilePic:  pic,
		IsPrivate:   raw.IsPrivate,
		Images:      images,
	}
}
