package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	progressWidth = 20
)

// StatusTracker keeps track of download progress
type StatusTracker struct {
	Total     int
	Completed int
	Failed    int
	Bytes     int64
	StartTime time.Time
}

// NewStatusTracker creates a tracker expecting total downloads
func NewStatusTracker(total int) *StatusTracker {
	return &StatusTracker{
		Total:     total,
		StartTime: time.Now(),
	}
}

// Record counts one finished download
func (st *StatusTracker) Record(size int64, err error) {
	if err != nil {
		st.Failed++
		return
	}
	st.Completed++
	st.Bytes += size
}

// Done returns how many downloads have finished either way
func (st *StatusTracker) Done() int {
	return st.Completed + st.Failed
}

// GetProgressBar returns a formatted progress bar
func (st *StatusTracker) GetProgressBar() string {
	filled := progressWidth
	if st.Total > 0 {
		filled = st.Done() * progressWidth / st.Total
	}
	if filled > progressWidth {
		filled = progressWidth
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, progressWidth-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.Done(), st.Total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// PrintProgress redraws the progress line on w
func (st *StatusTracker) PrintProgress(w io.Writer) {
	fmt.Fprintf(w, "\r%s %s", Green("[DOWNLOADING]"), st.GetProgressBar())
}

// Summary describes the finished run
func (st *StatusTracker) Summary() string {
	summary := fmt.Sprintf("Downloaded %d of %d images (%s) in %s",
		st.Completed, st.Total, formatBytes(st.Bytes), st.GetElapsedTime().Round(time.Millisecond))
	if st.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", st.Failed)
	}
	return summary
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
