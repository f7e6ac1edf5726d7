// Package blobstore provides binary asset storage with public URL resolution,
// standing in for the cloud file storage the mobile client uploaded avatars to.
package blobstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the blob storage contract.
type Store interface {
	// Put writes data at the given path, overwriting any prior blob.
	Put(path string, data []byte) error

	// URL resolves a stored path to its public download URL.
	URL(path string) (string, error)
}

// DiskStore keeps blobs under a root directory, served at a base URL.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates a disk-backed blob store.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes a blob to disk, creating intermediate directories.
func (s *DiskStore) Put(path string, data []byte) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", path, err)
	}
	return nil
}

// URL maps a blob path onto the public base URL.
func (s *DiskStore) URL(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty blob path")
	}
	return s.baseURL + "/" + strings.TrimPrefix(path, "/"), nil
}

// Root exposes the on-disk root for static file serving.
func (s *DiskStore) Root() string {
	return s.root
}
