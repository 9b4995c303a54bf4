package workflow

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
)

// DurationSentinelSeconds is reported when local metadata probing fails.
// Duration is advisory; a bad probe must not fail the upload.
const DurationSentinelSeconds = 1

// PendingVideo is an uploaded-but-not-committed video reference. It exists
// only on the client between a successful transfer and the session save that
// commits its storage key; canceling the edit simply drops it. The optional
// cleanup releases a local preview resource and runs exactly once no matter
// which exit path (cancel, commit, teardown) triggers it.
type PendingVideo struct {
	StorageKey      string
	Title           string
	DurationSeconds int

	cleanup     func()
	releaseOnce sync.Once
}

// Release frees the pending video's local preview resource. Safe to call
// multiple times and on a nil receiver.
func (p *PendingVideo) Release() {
	if p == nil || p.cleanup == nil {
		return
	}
	p.releaseOnce.Do(p.cleanup)
}

// MediaUploadCoordinator runs the two-phase upload protocol: obtain a
// pre-signed slot, PUT the bytes to the object store, and hand back a
// PendingVideo the session save later commits. No backend row exists for
// the video until that save.
type MediaUploadCoordinator struct {
	client *Client
	http   *http.Client
}

// NewMediaUploadCoordinator creates a coordinator using the given API client.
func NewMediaUploadCoordinator(client *Client) *MediaUploadCoordinator {
	return &MediaUploadCoordinator{
		client: client,
		// Uploads move whole video files; the API client's timeout is too
		// tight for them.
		http: &http.Client{Timeout: 30 * time.Minute},
	}
}

// RequestUploadSlot asks the backend for a pre-signed destination.
func (m *MediaUploadCoordinator) RequestUploadSlot(ctx context.Context, offeringID int64, originalFileName, contentType string, contentLength int64) (*dto.UploadSlotResponse, error) {
	slot, err := m.client.PresignUpload(ctx, offeringID, &dto.PresignUploadRequest{
		OriginalFileName: originalFileName,
		ContentType:      contentType,
		ContentLength:    contentLength,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPresignFailed, err)
	}
	return slot, nil
}

// Transfer PUTs the raw file bytes to the pre-signed URL. Any non-2xx status
// is an upload failure; the response body is not parsed, since object stores
// commonly answer pre-signed PUTs with an empty body. An expired URL surfaces
// here as the store's rejection status, never as a retry.
func (m *MediaUploadCoordinator) Transfer(ctx context.Context, uploadURL string, file io.Reader, contentType string, contentLength int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	if contentLength > 0 {
		req.ContentLength = contentLength
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: object store returned status %d", apperrors.ErrUploadFailed, resp.StatusCode)
	}
	return nil
}

// BuildPendingAsset constructs the client-held pending reference. Pure; the
// cleanup func (may be nil) releases any local preview resource via Release.
func (m *MediaUploadCoordinator) BuildPendingAsset(title, storageKey string, durationSeconds int, cleanup func()) *PendingVideo {
	if durationSeconds < 1 {
		durationSeconds = DurationSentinelSeconds
	}
	return &PendingVideo{
		StorageKey:      storageKey,
		Title:           title,
		DurationSeconds: durationSeconds,
		cleanup:         cleanup,
	}
}

// ProbeDuration reads MP4 metadata to estimate the playable duration in
// seconds. It walks the top-level boxes for moov/mvhd and reads the timescale
// and duration fields. Any parse failure returns the 1-second sentinel.
func ProbeDuration(r io.ReaderAt, size int64) int {
	secs, ok := probeMP4(r, size)
	if !ok || secs < 1 {
		return DurationSentinelSeconds
	}
	return secs
}

func probeMP4(r io.ReaderAt, size int64) (int, bool) {
	var offset int64
	header := make([]byte, 8)

	for offset+8 <= size {
		if _, err := r.ReadAt(header, offset); err != nil {
			return 0, false
		}
		boxSize := int64(binary.BigEndian.Uint32(header[:4]))
		boxType := string(header[4:8])

		headerLen := int64(8)
		switch boxSize {
		case 0:
			boxSize = size - offset // box extends to end of file
		case 1:
			ext := make([]byte, 8)
			if _, err := r.ReadAt(ext, offset+8); err != nil {
				return 0, false
			}
			boxSize = int64(binary.BigEndian.Uint64(ext))
			headerLen = 16
		}
		if boxSize < headerLen {
			return 0, false
		}

		if boxType == "moov" {
			return scanMoov(r, offset+headerLen, offset+boxSize)
		}
		offset += boxSize
	}
	return 0, false
}

func scanMoov(r io.ReaderAt, offset, end int64) (int, bool) {
	header := make([]byte, 8)
	for offset+8 <= end {
		if _, err := r.ReadAt(header, offset); err != nil {
			return 0, false
		}
		boxSize := int64(binary.BigEndian.Uint32(header[:4]))
		if boxSize < 8 {
			return 0, false
		}
		if string(header[4:8]) == "mvhd" {
			return readMvhd(r, offset+8)
		}
		offset += boxSize
	}
	return 0, false
}

func readMvhd(r io.ReaderAt, offset int64) (int, bool) {
	version := make([]byte, 1)
	if _, err := r.ReadAt(version, offset); err != nil {
		return 0, false
	}

	var timescale uint32
	var duration uint64
	switch version[0] {
	case 0:
		// version(1) flags(3) ctime(4) mtime(4) timescale(4) duration(4)
		buf := make([]byte, 8)
		if _, err := r.ReadAt(buf, offset+12); err != nil {
			return 0, false
		}
		timescale = binary.BigEndian.Uint32(buf[:4])
		duration = uint64(binary.BigEndian.Uint32(buf[4:]))
	case 1:
		// version(1) flags(3) ctime(8) mtime(8) timescale(4) duration(8)
		buf := make([]byte, 12)
		if _, err := r.ReadAt(buf, offset+20); err != nil {
			return 0, false
		}
		timescale = binary.BigEndian.Uint32(buf[:4])
		duration = binary.BigEndian.Uint64(buf[4:])
	default:
		return 0, false
	}

	if timescale == 0 {
		return 0, false
	}
	secs := duration / uint64(timescale)
	if duration%uint64(timescale) != 0 {
		secs++
	}
	return int(secs), true
}
