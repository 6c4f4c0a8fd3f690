package dto

import "time"

// DownloadLink is a short-lived signed URL for a stored file.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BriefStatusResponse reports brief generation state and, once ready, its download link.
type BriefStatusResponse struct {
	GigID    string        `json:"gigId"`
	Status   string        `json:"status"`
	Download *DownloadLink `json:"download,omitempty"`
}
