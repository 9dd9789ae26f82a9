// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt of the public portfolio site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// DefaultPostsPath is where the public site serves a post, followed by its slug.
const DefaultPostsPath = "/blog"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapPost is a published post listed in the sitemap.
type SitemapPost struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML for the portfolio site.
type SitemapBuilder struct {
	siteURL   string
	postsPath string
	urls      []SitemapURL
}

// NewSitemapBuilder creates a builder for siteURL. Posts are linked under
// postsPath, DefaultPostsPath when empty.
func NewSitemapBuilder(siteURL, postsPath string) *SitemapBuilder {
	if postsPath == "" {
		postsPath = DefaultPostsPath
	}
	return &SitemapBuilder{
		siteURL:   strings.TrimSuffix(siteURL, "/"),
		postsPath: "/" + strings.Trim(postsPath, "/"),
		urls:      make([]SitemapURL, 0),
	}
}

// AddHomepage adds the portfolio landing page.
func (b *SitemapBuilder) AddHomepage(lastMod time.Time) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		LastMod:    formatLastMod(lastMod),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "1.0",
	})
}

// AddPost adds a post page.
func (b *SitemapBuilder) AddPost(post SitemapPost) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + b.postsPath + "/" + post.Slug,
		LastMod:    formatLastMod(post.UpdatedAt),
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.8",
	})
}

// AddPosts adds multiple post pages.
func (b *SitemapBuilder) AddPosts(posts []SitemapPost) {
	for _, p := range posts {
		b.AddPost(p)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap lists the homepage and every post. The homepage carries
// the most recent post update as its lastmod.
func GenerateSitemap(siteURL, postsPath string, posts []SitemapPost) ([]byte, error) {
	var latest time.Time
	for _, p := range posts {
		if p.UpdatedAt.After(latest) {
			latest = p.UpdatedAt
		}
	}

	builder := NewSitemapBuilder(siteURL, postsPath)
	builder.AddHomepage(latest)
	builder.AddPosts(posts)
	return builder.Build()
}

func formatLastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
