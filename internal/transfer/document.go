// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is the current version of the portfolio document format.
const DocumentVersion = "1"

// Document is a whole portfolio in one file. The same schema is read from
// the YAML seed file and written by the export endpoint.
type Document struct {
	Version       string         `json:"version" yaml:"version"`
	ExportedAt    *time.Time     `json:"exportedAt,omitempty" yaml:"exportedAt,omitempty"`
	Posts         []Post         `json:"posts,omitempty" yaml:"posts,omitempty"`
	Experiences   []Experience   `json:"experiences,omitempty" yaml:"experiences,omitempty"`
	WebApps       []WebApp       `json:"webApps,omitempty" yaml:"webApps,omitempty"`
	WorkSamples   []WorkSample   `json:"workSamples,omitempty" yaml:"workSamples,omitempty"`
	Skills        []Skill        `json:"skills,omitempty" yaml:"skills,omitempty"`
	Tools         []Tool         `json:"tools,omitempty" yaml:"tools,omitempty"`
	PromoSections []PromoSection `json:"promoSections,omitempty" yaml:"promoSections,omitempty"`
}

// Post is a post in a document. Dates are RFC 3339 with an offset.
type Post struct {
	Title           string `json:"title" yaml:"title"`
	Slug            string `json:"slug" yaml:"slug"`
	Content         string `json:"content,omitempty" yaml:"content,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty" yaml:"metaDescription,omitempty"`
	FeaturedBanner  string `json:"featuredBanner,omitempty" yaml:"featuredBanner,omitempty"`
	Status          string `json:"status,omitempty" yaml:"status,omitempty"`
	ScheduledAt     string `json:"scheduledAt,omitempty" yaml:"scheduledAt,omitempty"`
	PublishedAt     string `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
}

// CareerStep is one role within an experience.
type CareerStep struct {
	Title     string `json:"title" yaml:"title"`
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// Experience is an experience in a document.
type Experience struct {
	Company           string       `json:"company" yaml:"company"`
	Role              string       `json:"role" yaml:"role"`
	Location          string       `json:"location,omitempty" yaml:"location,omitempty"`
	StartDate         string       `json:"startDate" yaml:"startDate"`
	EndDate           string       `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Summary           string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Achievements      []string     `json:"achievements,omitempty" yaml:"achievements,omitempty"`
	Skills            []string     `json:"skills,omitempty" yaml:"skills,omitempty"`
	CareerProgression []CareerStep `json:"careerProgression,omitempty" yaml:"careerProgression,omitempty"`
	Published         bool         `json:"published" yaml:"published"`
	SortOrder         int64        `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// WebApp is a web app in a document.
type WebApp struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	RepoURL     string   `json:"repoUrl,omitempty" yaml:"repoUrl,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	TechStack   []string `json:"techStack,omitempty" yaml:"techStack,omitempty"`
	Published   bool     `json:"published" yaml:"published"`
	SortOrder   int64    `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// WorkSample is a work sample in a document.
type WorkSample struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Published   bool     `json:"published" yaml:"published"`
	SortOrder   int64    `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// Skill is a skill in a document.
type Skill struct {
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Level     int64  `json:"level" yaml:"level"`
	Published bool   `json:"published" yaml:"published"`
	SortOrder int64  `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// Tool is a tool in a document.
type Tool struct {
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	Icon      string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Published bool   `json:"published" yaml:"published"`
	SortOrder int64  `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// PromoSection is a promo section in a document.
type PromoSection struct {
	Title     string `json:"title" yaml:"title"`
	Subtitle  string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Body      string `json:"body,omitempty" yaml:"body,omitempty"`
	CtaLabel  string `json:"ctaLabel,omitempty" yaml:"ctaLabel,omitempty"`
	CtaURL    string `json:"ctaUrl,omitempty" yaml:"ctaUrl,omitempty"`
	Published bool   `json:"published" yaml:"published"`
	SortOrder int64  `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// Count returns the number of items across all sections.
func (d *Document) Count() int {
	return len(d.Posts) + len(d.Experiences) + len(d.WebApps) + len(d.WorkSamples) +
		len(d.Skills) + len(d.Tools) + len(d.PromoSections)
}

// DecodeYAML reads a document. Unknown keys are rejected so typos in a
// seed file surface instead of silently dropping content. JSON input is
// accepted as well.
func DecodeYAML(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("document is empty")
		}
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if doc.Version != "" && doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported document version %q", doc.Version)
	}
	return &doc, nil
}

// LoadFile reads a document from a .yaml, .yml or .json file.
func LoadFile(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return DecodeYAML(bytes.NewReader(data))
}

// EncodeYAML writes d as YAML.
func (d *Document) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return enc.Close()
}

// EncodeJSON writes d as indented JSON.
func (d *Document) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
