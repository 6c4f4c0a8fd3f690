package models

import "time"

// DocumentKind names a documentation sub-section.
type DocumentKind string

const (
	DocumentKindProduct  DocumentKind = "product"
	DocumentKindProcess  DocumentKind = "process"
	DocumentKindTraining DocumentKind = "training"
)

// Valid reports whether k is a known documentation kind.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindProduct, DocumentKindProcess, DocumentKindTraining:
		return true
	default:
		return false
	}
}

// GigAsset is an uploaded documentation file.
type GigAsset struct {
	ID        string       `db:"id" json:"id"`
	GigID     string       `db:"gig_id" json:"gigId"`
	Kind      DocumentKind `db:"kind" json:"kind"`
	Filename  string       `db:"filename" json:"filename"`
	FilePath  string       `db:"file_path" json:"-"`
	MimeType  string       `db:"mime_type" json:"mimeType"`
	SizeBytes int64        `db:"size_bytes" json:"sizeBytes"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}
