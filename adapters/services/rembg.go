package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/SeaCloudHub/rembg/pkg/app"
	"github.com/SeaCloudHub/rembg/pkg/config"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// RembgService talks to a rembg HTTP server ("rembg s").
type RembgService struct {
	client *resty.Client

	model        string
	alphaMatting bool
	onlyMask     bool
}

func NewRembgService(cfg *config.Config) (*RembgService, error) {
	u, err := url.Parse(cfg.Rembg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	client := resty.New().
		SetBaseURL(u.String()).
		SetTimeout(cfg.Rembg.Timeout).
		SetDebug(cfg.Debug)

	return &RembgService{
		client:       client,
		model:        cfg.Rembg.Model,
		alphaMatting: cfg.Rembg.AlphaMatting,
		onlyMask:     cfg.Rembg.OnlyMask,
	}, nil
}

func (s *RembgService) RemoveBackground(ctx context.Context, img *rembg.Image) (*rembg.Image, error) {
	if img.IsEmpty() {
		return nil, rembg.ErrEmptyImage
	}

	form := map[string]string{
		"a":  strconv.FormatBool(s.alphaMatting),
		"om": strconv.FormatBool(s.onlyMask),
	}
	if s.model != "" {
		form["model"] = s.model
	}

	resp, err := s.request(ctx).
		SetMultipartField("file", fileName(img), img.MimeType, bytes.NewReader(img.Data)).
		SetMultipartFormData(form).
		Post("/api/remove")
	if err != nil {
		return nil, errors.Wrap(err, "rembg: remove background")
	}

	if resp.IsError() {
		return nil, errors.Errorf("rembg: unexpected status code %d: %s", resp.StatusCode(), truncate(resp.String()))
	}

	if len(resp.Body()) == 0 {
		return nil, rembg.ErrEmptyResult
	}

	return &rembg.Image{
		Name:     img.Name,
		MimeType: resp.Header().Get("Content-Type"),
		Data:     resp.Body(),
	}, nil
}

// Ping hits the OpenAPI page that the rembg server mounts at /api.
func (s *RembgService) Ping(ctx context.Context) error {
	resp, err := s.request(ctx).Get("/api")
	if err != nil {
		return errors.Wrap(err, "rembg: ping")
	}

	if resp.StatusCode() != http.StatusOK {
		return errors.Errorf("rembg: unexpected status code %d", resp.StatusCode())
	}

	return nil
}

func (s *RembgService) request(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx)

	if id := app.RequestIDFromContext(ctx); id != "" {
		req.SetHeader("X-Request-Id", id)
	}

	return req
}

func fileName(img *rembg.Image) string {
	if img.Name != "" {
		return img.Name
	}

	return "image"
}

func truncate(s string) string {
	const limit = 256

	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
