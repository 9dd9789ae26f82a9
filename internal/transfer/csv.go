// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer reads and writes portfolio content in exchange formats:
// the post CSV import and the YAML/JSON portfolio document used for seeding
// and export.
package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olegiv/ofolio/internal/model"
)

// MaxCSVRows bounds the data rows of one import.
const MaxCSVRows = 5000

// CSV errors that reject the whole file.
var (
	ErrEmptyCSV       = errors.New("CSV file is empty")
	ErrMissingColumns = errors.New("CSV header must contain title and slug columns")
	ErrTooManyRows    = fmt.Errorf("CSV file has more than %d rows", MaxCSVRows)
)

// PostRow is one usable CSV record. Line is the record number with the
// header counted as row 1.
type PostRow struct {
	Line            int
	Title           string
	Slug            string
	Content         string
	MetaDescription string
	FeaturedBanner  string
	Status          string
	ScheduledAt     string
	PublishedAt     string
}

// PostsCSV is the outcome of parsing a post CSV file.
type PostsCSV struct {
	Rows     []PostRow
	Warnings []string
	// Dropped counts rows without title or slug, which are skipped silently.
	Dropped int
}

// Warnf appends a row warning.
func (p *PostsCSV) Warnf(line int, format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf("row %d: ", line)+fmt.Sprintf(format, args...))
}

// postColumns maps normalized header names to row fields.
var postColumns = map[string]func(*PostRow) *string{
	"title":           func(r *PostRow) *string { return &r.Title },
	"slug":            func(r *PostRow) *string { return &r.Slug },
	"content":         func(r *PostRow) *string { return &r.Content },
	"metadescription": func(r *PostRow) *string { return &r.MetaDescription },
	"featuredbanner":  func(r *PostRow) *string { return &r.FeaturedBanner },
	"status":          func(r *PostRow) *string { return &r.Status },
	"scheduledat":     func(r *PostRow) *string { return &r.ScheduledAt },
	"publishedat":     func(r *PostRow) *string { return &r.PublishedAt },
}

var headerReplacer = strings.NewReplacer("_", "", "-", "", " ", "")

func normalizeHeader(h string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
}

// ParsePostsCSV reads a header row followed by post records. Quoted
// fields may hold commas, doubled quotes and newlines. A record whose
// column count differs from the header is skipped with a warning, and a
// record without title or slug is dropped. Unknown or empty statuses
// become draft.
func ParsePostsCSV(r io.Reader) (*PostsCSV, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	fields := make([]func(*PostRow) *string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if f, ok := postColumns[name]; ok && !seen[name] {
			fields[i] = f
			seen[name] = true
		}
	}
	if !seen["title"] || !seen["slug"] {
		return nil, ErrMissingColumns
	}

	out := &PostsCSV{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if line-1 > MaxCSVRows {
			return nil, ErrTooManyRows
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			out.Warnf(line, "%v", parseErr.Err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", line, err)
		}

		if len(record) != len(header) {
			out.Warnf(line, "expected %d columns, got %d", len(header), len(record))
			continue
		}

		row := PostRow{Line: line}
		for i, value := range record {
			if fields[i] != nil {
				*fields[i](&row) = strings.TrimSpace(value)
			}
		}
		if row.Title == "" || row.Slug == "" {
			out.Dropped++
			continue
		}

		row.Status = normalizeStatus(row.Status)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func normalizeStatus(s string) string {
	status, ok := model.ParsePostStatus(s)
	if !ok {
		return strings.ToLower(string(model.PostStatusDraft))
	}
	return strings.ToLower(string(status))
}
