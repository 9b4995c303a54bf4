package dto

import "time"

// PresignUploadRequest asks for a pre-signed upload slot for a video file.
type PresignUploadRequest struct {
	OriginalFileName string `json:"originalFileName" binding:"required"`
	ContentType      string `json:"contentType" binding:"required"`
	ContentLength    int64  `json:"contentLength" binding:"required,min=1"`
}

// UploadSlotResponse describes where and until when the file may be PUT.
type UploadSlotResponse struct {
	StorageKey string    `json:"storageKey"`
	UploadURL  string    `json:"uploadUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
