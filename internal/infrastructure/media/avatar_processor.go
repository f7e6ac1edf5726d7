// Package media provides avatar image processing
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/blobstore"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var dataURIPattern = regexp.MustCompile(`^data:image/(png|jpe?g|webp);base64,`)

// AvatarProcessor normalizes uploaded profile photos: decode, square-fit
// resize, webp encode, then store.
type AvatarProcessor struct {
	blobs blobstore.Store
	size  int
}

// NewAvatarProcessor creates an avatar processor writing into the given blob
// store. size is the square edge in pixels.
func NewAvatarProcessor(blobs blobstore.Store, size int) *AvatarProcessor {
	return &AvatarProcessor{blobs: blobs, size: size}
}

// ProcessBase64 handles a base64 data-URI avatar upload for a user and returns
// the public URL of the stored image.
func (p *AvatarProcessor) ProcessBase64(userID, data string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty avatar payload")
	}
	if !dataURIPattern.MatchString(data) {
		return "", fmt.Errorf("unsupported avatar format")
	}

	b64 := dataURIPattern.ReplaceAllString(data, "")
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode avatar image: %w", err)
	}

	// Center-crop to square, then resize to the configured edge.
	square := imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, square, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode avatar webp: %w", err)
	}

	path := avatarPath(userID)
	if err := p.blobs.Put(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	return p.blobs.URL(path)
}

func avatarPath(userID string) string {
	return "avatars/" + sanitize(userID) + ".webp"
}

// sanitize keeps blob paths flat even if an id ever carries separators.
func sanitize(id string) string {
	id = strings.ReplaceAll(id, "/", "_")
	return strings.ReplaceAll(id, "\\", "_")
}
