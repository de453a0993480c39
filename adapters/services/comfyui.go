package services

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/SeaCloudHub/rembg/pkg/config"
	"github.com/go-resty/resty/v2"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

//go:embed workflow.json
var workflowData []byte

const (
	loadImageClass      = "LoadImage"
	defaultPollInterval = 500 * time.Millisecond
)

var errPromptFailed = errors.New("comfyui: prompt execution failed")

// ComfyUIService runs a BiRefNet background-removal workflow on a ComfyUI
// server: upload the input, queue the prompt, poll its history, then
// download the saved output.
type ComfyUIService struct {
	client *resty.Client

	clientID     string
	pollInterval time.Duration
	timeout      time.Duration
}

func NewComfyUIService(cfg *config.Config) (*ComfyUIService, error) {
	u, err := url.Parse(cfg.ComfyUI.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if _, err := loadWorkflow("input.png"); err != nil {
		return nil, fmt.Errorf("load workflow: %w", err)
	}

	pollInterval := cfg.ComfyUI.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &ComfyUIService{
		client:       resty.New().SetBaseURL(u.String()).SetDebug(cfg.Debug),
		clientID:     ksuid.New().String(),
		pollInterval: pollInterval,
		timeout:      cfg.ComfyUI.Timeout,
	}, nil
}

type comfyImageRef struct {
	Name      string `json:"name,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

type promptResponse struct {
	PromptID   string                     `json:"prompt_id"`
	Number     int                        `json:"number"`
	NodeErrors map[string]json.RawMessage `json:"node_errors"`
}

type historyEntry struct {
	Outputs map[string]struct {
		Images []comfyImageRef `json:"images"`
	} `json:"outputs"`
	Status struct {
		StatusStr string `json:"status_str"`
		Completed bool   `json:"completed"`
	} `json:"status"`
}

func (s *ComfyUIService) RemoveBackground(ctx context.Context, img *rembg.Image) (*rembg.Image, error) {
	if img.IsEmpty() {
		return nil, rembg.ErrEmptyImage
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	uploaded, err := s.uploadImage(ctx, img)
	if err != nil {
		return nil, err
	}

	promptID, err := s.prompt(ctx, uploaded.Name)
	if err != nil {
		return nil, err
	}

	output, err := s.waitForOutput(ctx, promptID)
	if err != nil {
		return nil, err
	}

	return s.view(ctx, output)
}

func (s *ComfyUIService) Ping(ctx context.Context) error {
	resp, err := s.client.R().SetContext(ctx).Get("/system_stats")
	if err != nil {
		return errors.Wrap(err, "comfyui: ping")
	}

	if resp.StatusCode() != http.StatusOK {
		return errors.Errorf("comfyui: unexpected status code %d", resp.StatusCode())
	}

	return nil
}

func (s *ComfyUIService) uploadImage(ctx context.Context, img *rembg.Image) (*comfyImageRef, error) {
	var result comfyImageRef

	resp, err := s.client.R().SetContext(ctx).
		SetMultipartField("image", uploadName(img), img.MimeType, bytes.NewReader(img.Data)).
		SetMultipartFormData(map[string]string{
			"type":      "input",
			"overwrite": "true",
		}).
		SetResult(&result).
		Post("/upload/image")
	if err != nil {
		return nil, errors.Wrap(err, "comfyui: upload image")
	}

	if resp.IsError() {
		return nil, errors.Errorf("comfyui: upload image: unexpected status code %d: %s", resp.StatusCode(), truncate(resp.String()))
	}

	if result.Name == "" {
		return nil, errors.New("comfyui: upload image: empty file name in response")
	}

	return &result, nil
}

func (s *ComfyUIService) prompt(ctx context.Context, imageName string) (string, error) {
	workflow, err := loadWorkflow(imageName)
	if err != nil {
		return "", errors.Wrap(err, "comfyui: load workflow")
	}

	var result promptResponse

	resp, err := s.client.R().SetContext(ctx).
		SetBody(map[string]any{
			"prompt":    workflow,
			"client_id": s.clientID,
		}).
		SetResult(&result).
		Post("/prompt")
	if err != nil {
		return "", errors.Wrap(err, "comfyui: queue prompt")
	}

	if resp.IsError() {
		return "", errors.Errorf("comfyui: queue prompt: unexpected status code %d: %s", resp.StatusCode(), truncate(resp.String()))
	}

	if len(result.NodeErrors) > 0 {
		return "", errors.Wrapf(errPromptFailed, "node errors: %s", truncate(resp.String()))
	}

	if result.PromptID == "" {
		return "", errors.New("comfyui: queue prompt: empty prompt id in response")
	}

	return result.PromptID, nil
}

func (s *ComfyUIService) waitForOutput(ctx context.Context, promptID string) (*comfyImageRef, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		output, done, err := s.history(ctx, promptID)
		if err != nil {
			return nil, err
		}

		if done {
			return output, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "comfyui: wait for output")
		case <-ticker.C:
		}
	}
}

// history reports done once the prompt produced an image. A prompt that is
// still queued is simply absent from the history.
func (s *ComfyUIService) history(ctx context.Context, promptID string) (*comfyImageRef, bool, error) {
	var result map[string]historyEntry

	resp, err := s.client.R().SetContext(ctx).
		SetPathParam("id", promptID).
		SetResult(&result).
		Get("/history/{id}")
	if err != nil {
		return nil, false, errors.Wrap(err, "comfyui: get history")
	}

	if resp.IsError() {
		return nil, false, errors.Errorf("comfyui: get history: unexpected status code %d", resp.StatusCode())
	}

	entry, ok := result[promptID]
	if !ok {
		return nil, false, nil
	}

	if entry.Status.StatusStr == "error" {
		return nil, false, errPromptFailed
	}

	for _, out := range entry.Outputs {
		if len(out.Images) > 0 {
			return &out.Images[0], true, nil
		}
	}

	if entry.Status.Completed {
		return nil, false, rembg.ErrEmptyResult
	}

	return nil, false, nil
}

func (s *ComfyUIService) view(ctx context.Context, ref *comfyImageRef) (*rembg.Image, error) {
	resp, err := s.client.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"filename":  ref.Filename,
			"subfolder": ref.Subfolder,
			"type":      ref.Type,
		}).
		Get("/view")
	if err != nil {
		return nil, errors.Wrap(err, "comfyui: view output")
	}

	if resp.IsError() {
		return nil, errors.Errorf("comfyui: view output: unexpected status code %d", resp.StatusCode())
	}

	if len(resp.Body()) == 0 {
		return nil, rembg.ErrEmptyResult
	}

	mimeType := resp.Header().Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(ref.Filename))
	}

	return &rembg.Image{
		Name:     ref.Filename,
		MimeType: mimeType,
		Data:     resp.Body(),
	}, nil
}

// loadWorkflow returns a fresh copy of the embedded workflow with every
// LoadImage node pointed at imageName.
func loadWorkflow(imageName string) (map[string]map[string]any, error) {
	var workflow map[string]map[string]any
	if err := json.Unmarshal(workflowData, &workflow); err != nil {
		return nil, fmt.Errorf("unmarshal workflow data: %w", err)
	}

	found := false
	for _, node := range workflow {
		if node["class_type"] != loadImageClass {
			continue
		}

		inputs, ok := node["inputs"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s node without inputs", loadImageClass)
		}

		inputs["image"] = imageName
		found = true
	}

	if !found {
		return nil, fmt.Errorf("workflow has no %s node", loadImageClass)
	}

	return workflow, nil
}

func uploadName(img *rembg.Image) string {
	ext := filepath.Ext(img.Name)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(img.MimeType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	return gonanoid.Must(11) + ext
}
