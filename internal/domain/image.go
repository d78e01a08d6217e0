package domain

import "time"

// InspectionImage is the bookkeeping row for a photo stored in the
// external blob service. The bytes themselves never pass through the
// database; only the blob handle and metadata do.
type InspectionImage struct {
	ID           int64
	InspectionID int64
	DriveFileID  string
	DriveURL     string
	FileName     string
	FileSize     int64
	MimeType     string
	ImageType    string
	UploadedBy   string
	UploadedAt   time.Time
}
