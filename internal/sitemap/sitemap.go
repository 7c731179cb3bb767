package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	"townboard/backend/internal/integrations"
	"townboard/backend/internal/models"
)

const (
	xmlns     = "http://www.sitemaps.org/schemas/sitemap/0.9"
	objectKey = "sitemap.xml"
)

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Build renders the sitemap for all event pages under baseURL. Entries
// without a slug are skipped: their pages have no stable URL yet.
func Build(baseURL string, entries []models.SitemapEntry) ([]byte, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	set := urlSet{Xmlns: xmlns}
	for _, entry := range entries {
		if entry.Slug == "" {
			continue
		}
		u := urlEntry{Loc: base + "/events/" + entry.Slug}
		if !entry.UpdatedAt.IsZero() {
			u.LastMod = entry.UpdatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Publisher uploads rendered sitemaps to object storage.
type Publisher struct {
	s3     *integrations.S3Client
	logger *slog.Logger
}

func NewPublisher(s3 *integrations.S3Client, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{s3: s3, logger: logger}
}

// Publish uploads data as the bucket's sitemap.xml and returns its public
// URL.
func (p *Publisher) Publish(ctx context.Context, data []byte) (string, error) {
	if p.s3 == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	publicURL, err := p.s3.PutObject(ctx, objectKey, "application/xml", data)
	if err != nil {
		return "", fmt.Errorf("publish sitemap: %w", err)
	}
	p.logger.Info("action", "action", "publish_sitemap", "status", "success",
		"url", publicURL, "bytes", len(data))
	return publicURL, nil
}
