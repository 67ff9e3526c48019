// Package storage keeps uploaded files (news images) either on local disk
// or in a Backblaze B2 bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

type Storage interface {
	// Put stores r under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	key = path.Clean("/" + strings.TrimSpace(key))
	key = strings.TrimPrefix(key, "/")
	if key == "" || key == "." {
		return "", ErrInvalidKey
	}

	return key, nil
}
