package instagram

import (
	"fmt"
	"strings"
)

const (
	// BaseURL is the public web front end
	BaseURL = "https://www.instagram.com"

	// SharedDataMarker starts the script line that assigns the embedded profile data
	SharedDataMarker = "window._sharedData ="

	// ProfilePagesPath is the list of profile pages inside the shared data
	ProfilePagesPath = "entry_data.ProfilePage"

	// ProfilePath is the path inside the shared data that holds the user record
	ProfilePath = ProfilePagesPath + ".0.graphql.user"

	maxUsernameLength = 30
)

// GetUserProfileURL builds the public profile page URL. The username is
// interpolated verbatim.
func GetUserProfileURL(baseURL, username string) string {
	return fmt.Sprintf("%s/%s/", strings.TrimRight(baseURL, "/"), username)
}

// IsValidUsername checks a handle against the characters the site allows
func IsValidUsername(username string) bool {
	if username == "" || len(username) > maxUsernameLength {
		return false
	}

	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername strips a leading @ and trailing slashes or spaces
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}
