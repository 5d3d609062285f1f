package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

var (
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUploadNotConfigured = errors.New("image upload is not configured")
)

// DefaultMaxUploadBytes is the upload ceiling when none is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// CloudinaryUploader posts files to Cloudinary with an unsigned upload preset.
type CloudinaryUploader struct {
	CloudName    string
	UploadPreset string
	Folder       string
	MaxBytes     int64
	Endpoint     string
	HTTPClient   *http.Client
}

func NewCloudinaryUploader(cloudName, uploadPreset, folder string, maxBytes int64) *CloudinaryUploader {
	if strings.TrimSpace(folder) == "" {
		folder = "portfolio"
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &CloudinaryUploader{
		CloudName:    strings.TrimSpace(cloudName),
		UploadPreset: strings.TrimSpace(uploadPreset),
		Folder:       folder,
		MaxBytes:     maxBytes,
		Endpoint:     "https://api.cloudinary.com/v1_1",
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (u *CloudinaryUploader) Configured() bool {
	return u != nil && u.CloudName != "" && u.UploadPreset != ""
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one file and returns its optimized delivery URL. Oversized
// files are rejected before any request is made.
func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	if u == nil {
		return "", ErrUploadNotConfigured
	}
	maxBytes := u.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if size > maxBytes {
		return "", ErrFileTooLarge
	}
	if !u.Configured() {
		return "", ErrUploadNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(part, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n > maxBytes {
		return "", ErrFileTooLarge
	}
	if err := mw.WriteField("upload_preset", u.UploadPreset); err != nil {
		return "", err
	}
	if err := mw.WriteField("folder", u.Folder); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(u.Endpoint, "/") + "/" + u.CloudName + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := u.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out cloudinaryUploadResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("cloudinary upload http %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("cloudinary upload http %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("cloudinary upload: %w", decodeErr)
	}
	if out.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure_url")
	}
	return OptimizedDeliveryURL(out.SecureURL), nil
}

// OptimizedDeliveryURL asks Cloudinary for automatic format and quality.
func OptimizedDeliveryURL(secureURL string) string {
	return strings.Replace(secureURL, "/upload/", "/upload/f_auto,q_auto/", 1)
}
