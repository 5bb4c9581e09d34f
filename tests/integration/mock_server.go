package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MockProfile describes a profile served by MockInstagramServer
type MockProfile struct {
	Username    string
	FullName    *string
	Biography   *string
	ExternalURL *string
	HasPicture  bool
	IsPrivate   bool
	PhotoCount  int
	// FirstTimestamp is the upload time of the first photo; later photos
	// are one minute apart
	FirstTimestamp int64
}

// MockInstagramServer serves profile pages and a photo CDN the way the
// public site does
type MockInstagramServer struct {
	server         *httptest.Server
	profiles       map[string]MockProfile
	rawPages       map[string]string
	requestCount   int32
	photoRequests  int32
	inFlight       int32
	maxInFlight    int32
	errorResponses map[string]int // Map of paths to error codes
	delays         map[string]time.Duration
	mu             sync.RWMutex
}

// NewMockInstagramServer creates a new mock server
func NewMockInstagramServer() *MockInstagramServer {
	m := &MockInstagramServer{
		profiles:       make(map[string]MockProfile),
		rawPages:       make(map[string]string),
		errorResponses: make(map[string]int),
		delays:         make(map[string]time.Duration),
	}

	mux := http.NewServeMux()

	// Photo download endpoint (simulated CDN)
	mux.HandleFunc("/photos/", m.handlePhotoDownload)

	// Everything else is a profile page
	mux.HandleFunc("/", m.handleProfilePage)

	m.server = httptest.NewServer(mux)
	return m
}

// AddProfile registers a profile
func (m *MockInstagramServer) AddProfile(p MockProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.Username] = p
}

// SetRawPage serves body verbatim for username
func (m *MockInstagramServer) SetRawPage(username, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawPages[username] = body
}

// handleProfilePage renders /<username>/
func (m *MockInstagramServer) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if delay := m.getDelay(r.URL.Path); delay > 0 {
		time.Sleep(delay)
	}
	if errorCode := m.getErrorResponse(r.URL.Path); errorCode > 0 {
		w.WriteHeader(errorCode)
		return
	}

	username := strings.Trim(r.URL.Path, "/")

	m.mu.RLock()
	raw, hasRaw := m.rawPages[username]
	profile, hasProfile := m.profiles[username]
	m.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch {
	case hasRaw:
		w.Write([]byte(raw))
	case hasProfile:
		page, err := m.renderPage(profile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write([]byte(page))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("<html><body>Sorry, this page isn't available.</body></html>"))
	}
}

// renderPage embeds the profile's shared data in an HTML page
func (m *MockInstagramServer) renderPage(p MockProfile) (string, error) {
	edges := make([]map[string]interface{}, 0, p.PhotoCount)
	if !p.IsPrivate {
		for i := 0; i < p.PhotoCount; i++ {
			edges = append(edges, map[string]interface{}{
				"node": map[string]interface{}{
					"__typename":         "GraphImage",
					"shortcode":          fmt.Sprintf("SC%03d", i),
					"display_url":        m.PhotoURL(p.Username, i),
					"taken_at_timestamp": p.FirstTimestamp + int64(i*60),
					"is_video":           false,
				},
			})
		}
	}

	var pic interface{}
	if p.HasPicture {
		pic = m.server.URL + "/photos/" + p.Username + "/avatar.jpg"
	}

	sharedData := map[string]interface{}{
		"config":       map[string]interface{}{"csrf_token": "missing"},
		"country_code": "GB",
		"entry_data": map[string]interface{}{
			"ProfilePage": []interface{}{
				map[string]interface{}{
					"logging_page_id": "profilePage_" + p.Username,
					"graphql": map[string]interface{}{
						"user": map[string]interface{}{
							"username":           p.Username,
							"full_name":          p.FullName,
							"biography":          p.Biography,
							"external_url":       p.ExternalURL,
							"profile_pic_url_hd": pic,
							"is_private":         p.IsPrivate,
							"edge_followed_by":   map[string]interface{}{"count": 100},
							"edge_owner_to_timeline_media": map[string]interface{}{
								"count": p.PhotoCount,
								"edges": edges,
							},
						},
					},
				},
			},
		},
	}

	data, err := json.Marshal(sharedData)
	if err != nil {
		return "", err
	}

	return "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<title>@" + p.Username + "</title>\n</head>\n<body>\n" +
		"<script type=\"text/javascript\">window._sharedData = " + string(data) + ";</script>\n" +
		"<script type=\"text/javascript\">window.__initialDataLoaded(window._sharedData);</script>\n" +
		"</body>\n</html>\n", nil
}

// PhotoURL returns the CDN URL of a profile's i-th photo
func (m *MockInstagramServer) PhotoURL(username string, i int) string {
	return fmt.Sprintf("%s/photos/%s/%d.jpg", m.server.URL, username, i)
}

// PhotoContent is the body served for a photo path
func PhotoContent(path string) []byte {
	return []byte("JPEG:" + path)
}

// handlePhotoDownload simulates photo CDN downloads
func (m *MockInstagramServer) handlePhotoDownload(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	atomic.AddInt32(&m.photoRequests, 1)

	current := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&m.maxInFlight)
		if current <= peak || atomic.CompareAndSwapInt32(&m.maxInFlight, peak, current) {
			break
		}
	}

	if delay := m.getDelay(r.URL.Path); delay > 0 {
		time.Sleep(delay)
	}
	if errorCode := m.getErrorResponse(r.URL.Path); errorCode > 0 {
		w.WriteHeader(errorCode)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(PhotoContent(r.URL.Path))
}

// SetErrorResponse configures a path to return a specific error code
func (m *MockInstagramServer) SetErrorResponse(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[path] = code
}

// SetDelay configures response delay for a path
func (m *MockInstagramServer) SetDelay(path string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = delay
}

// SetPhotoDelay delays every photo of username
func (m *MockInstagramServer) SetPhotoDelay(username string, count int, delay time.Duration) {
	for i := 0; i < count; i++ {
		m.SetDelay(fmt.Sprintf("/photos/%s/%d.jpg", username, i), delay)
	}
}

func (m *MockInstagramServer) getErrorResponse(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errorResponses[path]
}

func (m *MockInstagramServer) getDelay(path string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delays[path]
}

// GetURL returns the base URL of the mock server
func (m *MockInstagramServer) GetURL() string {
	return m.server.URL
}

// GetRequestCount returns the total number of requests
func (m *MockInstagramServer) GetRequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GetPhotoRequestCount returns the number of CDN requests
func (m *MockInstagramServer) GetPhotoRequestCount() int {
	return int(atomic.LoadInt32(&m.photoRequests))
}

// GetMaxConcurrentPhotos returns the peak number of parallel CDN requests
func (m *MockInstagramServer) GetMaxConcurrentPhotos() int {
	return int(atomic.LoadInt32(&m.maxInFlight))
}

// Close shuts down the mock server
func (m *MockInstagramServer) Close() {
	m.server.Close()
}
