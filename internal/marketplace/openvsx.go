package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"vsxregistry/internal/models"
	"vsxregistry/internal/utils"
)

const (
	DefaultTimeout  = 30 * time.Second
	MaxResponseSize = 32 * 1024 * 1024
)

// OpenVSX talks to an Open VSX compatible registry.
type OpenVSX struct {
	client *http.Client
}

var _ API = (*OpenVSX)(nil)

func NewOpenVSX(timeout time.Duration) *OpenVSX {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &OpenVSX{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *OpenVSX) GetName() string {
	return "Open VSX Registry"
}

type filesJSON struct {
	Download string `json:"download"`
	Icon     string `json:"icon"`
	Readme   string `json:"readme"`
	License  string `json:"license"`
}

type extensionJSON struct {
	URL           string            `json:"url"`
	Files         filesJSON         `json:"files"`
	Name          string            `json:"name"`
	Namespace     string            `json:"namespace"`
	Version       string            `json:"version"`
	Timestamp     string            `json:"timestamp"`
	DisplayName   string            `json:"displayName"`
	Description   string            `json:"description"`
	AverageRating float64           `json:"averageRating"`
	DownloadCount int64             `json:"downloadCount"`
	ReviewCount   int64             `json:"reviewCount"`
	NamespaceURL  string            `json:"namespaceUrl"`
	ReviewsURL    string            `json:"reviewsUrl"`
	License       string            `json:"license"`
	Homepage      string            `json:"homepage"`
	Repository    string            `json:"repository"`
	Categories    []string          `json:"categories"`
	AllVersions   map[string]string `json:"allVersions"`
	PublishedBy   models.Publisher  `json:"publishedBy"`
}

func (e extensionJSON) toPart() models.ExtensionPart {
	return models.ExtensionPart{
		Publisher:     e.Namespace,
		Name:          e.Name,
		DisplayName:   e.DisplayName,
		Version:       e.Version,
		Description:   e.Description,
		URL:           e.URL,
		DownloadURL:   e.Files.Download,
		IconURL:       e.Files.Icon,
		ReadmeURL:     e.Files.Readme,
		AverageRating: e.AverageRating,
		DownloadCount: e.DownloadCount,
	}
}

func (e extensionJSON) toFull() *models.ExtensionFull {
	full := &models.ExtensionFull{
		ExtensionPart: e.toPart(),
		NamespaceURL:  e.NamespaceURL,
		ReviewsURL:    e.ReviewsURL,
		LicenseURL:    e.Files.License,
		License:       e.License,
		Repository:    e.Repository,
		Homepage:      e.Homepage,
		Categories:    e.Categories,
		ReviewCount:   e.ReviewCount,
		PublishedBy:   e.PublishedBy,
		AllVersions:   e.AllVersions,
	}
	if ts, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
		full.Timestamp = ts
	}
	return full
}

func (m *OpenVSX) GetExtensions(ctx context.Context, endpoint string) ([]models.ExtensionPart, error) {
	body, err := m.fetch(ctx, endpoint, utils.JSONContentType)
	if err != nil {
		return nil, err
	}

	var response struct {
		Offset     int             `json:"offset"`
		TotalSize  int             `json:"totalSize"`
		Extensions []extensionJSON `json:"extensions"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	result := make([]models.ExtensionPart, 0, len(response.Extensions))
	for _, ext := range response.Extensions {
		result = append(result, ext.toPart())
	}
	return result, nil
}

func (m *OpenVSX) GetExtension(ctx context.Context, url string) (*models.ExtensionFull, error) {
	body, err := m.fetch(ctx, url, utils.JSONContentType)
	if err != nil {
		return nil, err
	}

	var ext extensionJSON
	if err := json.Unmarshal(body, &ext); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return ext.toFull(), nil
}

func (m *OpenVSX) GetExtensionReadMe(ctx context.Context, url string) (string, error) {
	body, err := m.fetch(ctx, url, utils.MarkdownContentType)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (m *OpenVSX) GetExtensionReviews(ctx context.Context, url string) (*models.ReviewList, error) {
	body, err := m.fetch(ctx, url, utils.JSONContentType)
	if err != nil {
		return nil, err
	}

	var reviews models.ReviewList
	if err := json.Unmarshal(body, &reviews); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if reviews.Reviews == nil {
		reviews.Reviews = []models.Review{}
	}
	return &reviews, nil
}

func (m *OpenVSX) fetch(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(utils.UserAgentHeader, utils.UserAgent)
	req.Header.Set(utils.AcceptHeader, accept)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(bodyBytes) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}

	if resp.StatusCode != http.StatusOK {
		httpErr := NewHTTPError(resp.StatusCode, url, resp.Status)
		if msg := registryError(bodyBytes); msg != "" {
			httpErr.Message = msg
		}
		return nil, httpErr
	}

	// Open VSX reports lookup failures as {"error": "..."} with a 200.
	if accept == utils.JSONContentType {
		if msg := registryError(bodyBytes); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrRegistry, msg)
		}
	}

	return bodyBytes, nil
}

func registryError(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "error").String()
}
