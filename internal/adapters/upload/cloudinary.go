// Package upload stores payment-proof images with Cloudinary's unsigned
// upload API. Upload failures are reported to the caller, which treats them
// as non-fatal for ticket issuance.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

// Config holds Cloudinary upload settings. UploadPreset must be an unsigned
// preset configured in the Cloudinary console.
type Config struct {
	CloudName    string
	UploadPreset string
}

type cloudinaryUploader struct {
	client *http.Client
	config Config
}

// NewCloudinaryUploader returns a ProofUploader that posts to the Cloudinary
// image upload endpoint.
func NewCloudinaryUploader(client *http.Client, config Config) domain.ProofUploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &cloudinaryUploader{client: client, config: config}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *cloudinaryUploader) Upload(ctx context.Context, folder string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "proof")
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.config.UploadPreset); err != nil {
		return "", fmt.Errorf("failed to write preset field: %w", err)
	}
	if folder != "" {
		if err := writer.WriteField("folder", folder); err != nil {
			return "", fmt.Errorf("failed to write folder field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.config.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}
	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("cloudinary returned status %d: %s", resp.StatusCode, msg)
	}
	return parsed.SecureURL, nil
}

type noopUploader struct{}

// NewNoopUploader returns a ProofUploader that discards the asset and returns
// an empty URL. Used when Cloudinary is not configured.
func NewNoopUploader() domain.ProofUploader {
	return &noopUploader{}
}

func (n *noopUploader) Upload(ctx context.Context, folder string, data []byte) (string, error) {
	return "", nil
}
