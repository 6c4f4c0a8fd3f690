package dto

import "github.com/harx/gig-wizard-api/internal/models"

// AssetUploadResponse describes a stored upload and the document appended to the gig.
type AssetUploadResponse struct {
	Asset    models.GigAsset `json:"asset"`
	Document models.Document `json:"document"`
	Download DownloadLink    `json:"download"`
}
