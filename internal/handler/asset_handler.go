package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/response"
)

type assetService interface {
	Upload(ctx context.Context, gigID, kind, filename, declaredType string, r io.Reader) (*dto.AssetUploadResponse, error)
	List(ctx context.Context, gigID string) ([]models.GigAsset, error)
	Link(ctx context.Context, assetID string) (*dto.DownloadLink, error)
	Open(ctx context.Context, assetID, token string) (*os.File, *models.GigAsset, error)
}

// AssetHandler handles documentation uploads and signed downloads.
type AssetHandler struct {
	assets assetService
}

// NewAssetHandler constructs the handler.
func NewAssetHandler(assets assetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Upload godoc
// @Summary Upload a product, process or training document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Gig ID"
// @Param kind path string true "product, process or training"
// @Param file formData file true "Document"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /gigs/{id}/documents/{kind} [post]
func (h *AssetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrFileTooLarge.Code, appErrors.ErrFileTooLarge.Status, "file exceeds the upload limit"))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	result, err := h.assets.Upload(c.Request.Context(), c.Param("id"), c.Param("kind"), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List uploaded documents of a gig
// @Tags Documents
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/documents [get]
func (h *AssetHandler) List(c *gin.Context) {
	items, err := h.assets.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Link godoc
// @Summary Sign a fresh download link
// @Tags Documents
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} response.Envelope
// @Router /assets/{id} [get]
func (h *AssetHandler) Link(c *gin.Context) {
	link, err := h.assets.Link(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, link)
}

// Download godoc
// @Summary Download a document via signed token
// @Tags Documents
// @Produce octet-stream
// @Param id path string true "Asset ID"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /assets/{id}/download [get]
func (h *AssetHandler) Download(c *gin.Context) {
	file, asset, err := h.assets.Open(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()
	serveFile(c, file, asset.Filename, asset.MimeType)
}

func serveFile(c *gin.Context, file *os.File, filename, mimeType string) {
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat file"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, info.Size(), mimeType, file, nil)
}
