package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/storage"
)

const sniffLength = 512

// AssetRepository persists upload metadata.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.GigAsset) error
	FindByID(ctx context.Context, id string) (*models.GigAsset, error)
	ListByGig(ctx context.Context, gigID string) ([]models.GigAsset, error)
	Delete(ctx context.Context, id string) error
}

// AssetStore keeps uploaded bytes.
type AssetStore interface {
	SaveStream(name string, r io.Reader, maxBytes int64) (int64, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
}

// AssetConfig limits uploads.
type AssetConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	BasePath     string
}

// AssetService stores documentation uploads and links them from the gig's documentation section.
type AssetService struct {
	gigs    GigStore
	repo    AssetRepository
	files   AssetStore
	signer  *storage.SignedURLSigner
	allowed map[string]struct{}
	cfg     AssetConfig
	logger  *zap.Logger
}

// NewAssetService constructs the service.
func NewAssetService(gigs GigStore, repo AssetRepository, files AssetStore, signer *storage.SignedURLSigner, cfg AssetConfig, logger *zap.Logger) *AssetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, value := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(strings.TrimSpace(value))] = struct{}{}
	}
	return &AssetService{gigs: gigs, repo: repo, files: files, signer: signer, allowed: allowed, cfg: cfg, logger: logger}
}

// Upload stores a file and appends it to the gig's documentation under kind. The content type is
// sniffed from the bytes; the declared type only counts when sniffing is inconclusive.
func (s *AssetService) Upload(ctx context.Context, gigID, kind, filename, declaredType string, r io.Reader) (*dto.AssetUploadResponse, error) {
	docKind := models.DocumentKind(strings.ToLower(kind))
	if !docKind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown documentation kind %q", kind))
	}
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file name is required")
	}

	gig, _, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.Status == models.GigStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrGigPublished, "published gigs cannot be modified")
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read upload")
	}
	head = head[:n]
	if n == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	mimeType, ok := s.contentType(head, declaredType)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("file type %s is not allowed", mimeType))
	}

	asset := &models.GigAsset{
		ID:       uuid.NewString(),
		GigID:    gig.ID,
		Kind:     docKind,
		Filename: filename,
		MimeType: mimeType,
	}
	asset.FilePath = filepath.ToSlash(filepath.Join(gig.ID, asset.ID+strings.ToLower(filepath.Ext(filename))))

	size, err := s.files.SaveStream(asset.FilePath, io.MultiReader(bytes.NewReader(head), r), s.cfg.MaxFileSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds the %d byte limit", s.cfg.MaxFileSize))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}
	asset.SizeBytes = size

	if err := s.repo.Create(ctx, asset); err != nil {
		_ = s.files.Delete(asset.FilePath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record asset")
	}

	document := models.Document{Name: filename, URL: s.assetPath(asset.ID), AssetID: asset.ID}
	if _, _, err := s.gigs.Mutate(ctx, gig.ID, func(gig *models.Gig, _ models.Catalogs) error {
		gig.Documentation.Append(docKind, document)
		return nil
	}); err != nil {
		_ = s.repo.Delete(ctx, asset.ID)
		_ = s.files.Delete(asset.FilePath)
		return nil, err
	}

	link, err := s.sign(asset.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset uploaded",
		zap.String("gig_id", gig.ID),
		zap.String("asset_id", asset.ID),
		zap.String("mime_type", mimeType),
		zap.Int64("size_bytes", size),
	)
	return &dto.AssetUploadResponse{Asset: *asset, Document: document, Download: *link}, nil
}

// List returns a gig's uploads.
func (s *AssetService) List(ctx context.Context, gigID string) ([]models.GigAsset, error) {
	if _, _, err := s.gigs.Get(ctx, gigID); err != nil {
		return nil, err
	}
	assets, err := s.repo.ListByGig(ctx, gigID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}
	if assets == nil {
		assets = []models.GigAsset{}
	}
	return assets, nil
}

// Link signs a fresh download URL for an asset.
func (s *AssetService) Link(ctx context.Context, assetID string) (*dto.DownloadLink, error) {
	if _, err := s.find(ctx, assetID); err != nil {
		return nil, err
	}
	return s.sign(assetID)
}

// Open verifies the token and opens the stored file.
func (s *AssetService) Open(ctx context.Context, assetID, token string) (*os.File, *models.GigAsset, error) {
	if err := verifyToken(s.signer, token, assetSubject(assetID)); err != nil {
		return nil, nil, err
	}
	asset, err := s.find(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}
	file, err := s.files.Open(asset.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "asset file missing")
	}
	return file, asset, nil
}

func (s *AssetService) find(ctx context.Context, assetID string) (*models.GigAsset, error) {
	asset, err := s.repo.FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	return asset, nil
}

func (s *AssetService) contentType(head []byte, declared string) (string, bool) {
	sniffed := baseMediaType(http.DetectContentType(head))
	if s.isAllowed(sniffed) {
		return sniffed, true
	}
	switch sniffed {
	case "application/octet-stream", "application/zip", "text/plain":
		if candidate := baseMediaType(declared); s.isAllowed(candidate) {
			return candidate, true
		}
	}
	return sniffed, false
}

func (s *AssetService) isAllowed(mimeType string) bool {
	if len(s.allowed) == 0 {
		return mimeType != ""
	}
	_, ok := s.allowed[mimeType]
	return ok
}

func (s *AssetService) sign(assetID string) (*dto.DownloadLink, error) {
	token, expiresAt, err := s.signer.Generate(assetSubject(assetID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign asset link")
	}
	return &dto.DownloadLink{URL: s.assetPath(assetID) + "/download?token=" + url.QueryEscape(token), ExpiresAt: expiresAt}, nil
}

func (s *AssetService) assetPath(assetID string) string {
	return strings.TrimRight(s.cfg.BasePath, "/") + "/assets/" + url.PathEscape(assetID)
}

func assetSubject(assetID string) string {
	return "asset:" + assetID
}

func baseMediaType(value string) string {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return strings.ToLower(mediaType)
}
