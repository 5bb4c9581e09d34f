package instagram

// RawProfile mirrors the user record embedded in the profile page.
// Username, IsPrivate and the media edges are required; the decoder
// rejects records that omit them.
type RawProfile struct {
	Username                 string                   `json:"username"`
	FullName                 *string                  `json:"full_name"`
	Biography                *string                  `json:"biography"`
	ExternalURL              *string                  `json:"external_url"`
	ProfilePicURLHD          *string                  `json:"profile_pic_url_hd"`
	IsPrivate                bool                     `json:"is_private"`
	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// EdgeOwnerToTimelineMedia contains the initially embedded media
type EdgeOwnerToTimelineMedia struct {
	Edges []Edge `json:"edges"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node is one post's image reference and upload time
type Node struct {
	DisplayURL       string `json:"display_url"`
	TakenAtTimestamp int64  `json:"taken_at_timestamp"`
}
