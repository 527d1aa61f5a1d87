package model

import "time"

// Permit is the supporting document uploaded for an application, one per
// application. The file itself lives in object storage under StoragePath.
type Permit struct {
	ID            string    `db:"id"`
	ApplicationID string    `db:"application_id"`
	Filename      string    `db:"filename"`
	OriginalName  string    `db:"original_name"`
	MimeType      string    `db:"mime_type"`
	Size          int64     `db:"size"`
	StoragePath   string    `db:"storage_path"`
	UploadDate    time.Time `db:"upload_date"`
}
