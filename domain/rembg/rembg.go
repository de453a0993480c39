package rembg

import (
	"context"
	"errors"
)

var (
	ErrEmptyImage         = errors.New("image has no content")
	ErrEmptyResult        = errors.New("background remover returned no image")
	ErrUnsupportedBackend = errors.New("unsupported background remover backend")
)

// Service is the background-removal capability. Implementations own the
// model lifecycle; callers only see bytes in and bytes out.
type Service interface {
	RemoveBackground(ctx context.Context, img *Image) (*Image, error)
	Ping(ctx context.Context) error
}

type Image struct {
	Name     string
	MimeType string
	Data     []byte
}

func (i *Image) IsEmpty() bool {
	return i == nil || len(i.Data) == 0
}
