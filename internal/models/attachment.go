package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is a stored media file. File holds the path relative to the
// media root and is what filename lookups match against.
type Attachment struct {
	ID        string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	File      string         `json:"file" gorm:"index;not null"`
	SourceURL string         `json:"source_url" gorm:"index"`
	MimeType  string         `json:"mime_type"`
	Title     string         `json:"title"`
	Metadata  AttachmentMeta `json:"metadata" gorm:"type:text;serializer:json"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type AttachmentMeta struct {
	Width    int                  `json:"width"`
	Height   int                  `json:"height"`
	File     string               `json:"file"`
	Filesize int64                `json:"filesize"`
	Sizes    map[string]ImageSize `json:"sizes,omitempty"`
}

type ImageSize struct {
	File     string `json:"file"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
