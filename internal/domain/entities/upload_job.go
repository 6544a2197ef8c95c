package entities

import (
	"os"
	"path/filepath"
	"strings"
)

// UploadJob is the ephemeral state of one upload-to-persisted-meeting
// execution. It is never stored; its only resource is the spooled temp
// file, which Cleanup removes on every exit path.
type UploadJob struct {
	TempFilePath     string
	OwnerID          int64
	Title            string
	SizeBytes        int64
	DeclaredFilename string
}

// NewUploadJob derives the job title: explicit hint, then the declared
// filename stripped of its extension, then the fixed placeholder.
func NewUploadJob(ownerID int64, declaredFilename, titleHint string, sizeBytes int64) *UploadJob {
	title := strings.TrimSpace(titleHint)
	if title == "" {
		base := filepath.Base(declaredFilename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if title == "" {
		title = DefaultMeetingTitle
	}

	return &UploadJob{
		OwnerID:          ownerID,
		Title:            title,
		SizeBytes:        sizeBytes,
		DeclaredFilename: declaredFilename,
	}
}

// Extension returns the lower-cased declared file extension without the
// leading dot.
func (j *UploadJob) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(j.DeclaredFilename)), ".")
}

// Cleanup removes the spooled temp file. Safe to call when no file was
// ever written, and safe to call more than once.
func (j *UploadJob) Cleanup() {
	if j.TempFilePath == "" {
		return
	}
	_ = os.Remove(j.TempFilePath)
	j.TempFilePath = ""
}
