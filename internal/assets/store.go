// Package assets is the binary asset store capability: store bytes, get a
// stable public URL back; delete is best-effort.
package assets

import (
	"context"
	"errors"
)

type Store interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// ErrDisabled is returned when no asset backend is configured.
var ErrDisabled = errors.New("asset store is not configured")

// Disabled rejects uploads; deployments without a bucket still run, they
// just cannot accept images.
type Disabled struct{}

func (Disabled) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Delete(ctx context.Context, url string) error {
	return ErrDisabled
}
