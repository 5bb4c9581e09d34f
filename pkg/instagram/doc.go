// Package instagram reads public profile data from Instagram's web pages.
//
// Acquisition happens in three stages, each with its own failure modes:
//   - Client.FetchProfilePage downloads https://www.instagram.com/<username>/
//   - ExtractSharedData finds the "window._sharedData = {...}" line in the page
//   - DecodeProfile navigates to entry_data.ProfilePage[0].graphql.user and
//     decodes it into a RawProfile
//
// Every stage returns a *errors.Error whose Type identifies what went
// wrong, so callers can tell a missing user from a changed page format:
//
//	body, err := client.FetchProfilePage(ctx, "peterdn")
//	if errors.Is(err, igerrors.ErrUserNotFound) {
//	    // no such profile
//	}
//	blob, err := instagram.ExtractSharedData(body)
//	raw, err := instagram.DecodeProfile(blob)
//
// The package does not follow pagination: only the media embedded in the
// page are returned.
package instagram
