// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostsCSV(t *testing.T) {
	input := "title,slug,content,metaDescription,status,scheduledAt\n" +
		`"Hello, world",hello-world,"She said ""hi""",meta,PUBLISHED,` + "\n" +
		"Second,second,\"multi\nline\",,scheduled,2030-01-01T00:00:00Z\n"

	parsed, err := ParsePostsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 2)
	assert.Empty(t, parsed.Warnings)

	first := parsed.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Hello, world", first.Title)
	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, `She said "hi"`, first.Content)
	assert.Equal(t, "meta", first.MetaDescription)
	assert.Equal(t, "published", first.Status)

	second := parsed.Rows[1]
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "multi\nline", second.Content)
	assert.Equal(t, "scheduled", second.Status)
	assert.Equal(t, "2030-01-01T00:00:00Z", second.ScheduledAt)
}

func TestParsePostsCSVSkipsShortRow(t *testing.T) {
	input := strings.Join([]string{
		"title,slug,content,metaDescription,featuredBanner,status",
		"One,one,body,meta,,draft",
		"Broken,broken",
		"Three,three,body,meta,,published",
	}, "\n")

	parsed, err := ParsePostsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, "one", parsed.Rows[0].Slug)
	assert.Equal(t, "three", parsed.Rows[1].Slug)
	assert.Equal(t, []string{"row 3: expected 6 columns, got 2"}, parsed.Warnings)
}

func TestParsePostsCSVDropsRowsWithoutTitleOrSlug(t *testing.T) {
	input := "title,slug\n,no-title\nNo slug,\nOk,ok\n"

	parsed, err := ParsePostsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, 2, parsed.Dropped)
	assert.Empty(t, parsed.Warnings)
}

func TestParsePostsCSVStatusDefaults(t *testing.T) {
	input := "title,slug,status\nA,a,\nB,b,archived\nC,c,Scheduled\n"

	parsed, err := ParsePostsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 3)
	assert.Equal(t, "draft", parsed.Rows[0].Status)
	assert.Equal(t, "draft", parsed.Rows[1].Status)
	assert.Equal(t, "scheduled", parsed.Rows[2].Status)
}

func TestParsePostsCSVHeaderVariants(t *testing.T) {
	input := "\ufeffTitle,Slug,meta_description,Featured Banner,published-at\nA,a,m,/img.png,2024-01-01T00:00:00Z\n"

	parsed, err := ParsePostsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	row := parsed.Rows[0]
	assert.Equal(t, "A", row.Title)
	assert.Equal(t, "m", row.MetaDescription)
	assert.Equal(t, "/img.png", row.FeaturedBanner)
	assert.Equal(t, "2024-01-01T00:00:00Z", row.PublishedAt)
}

func TestParsePostsCSVRejectsFile(t *testing.T) {
	_, err := ParsePostsCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyCSV)

	_, err = ParsePostsCSV(strings.NewReader("title,content\nA,b\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)

	var b strings.Builder
	b.WriteString("title,slug\n")
	for i := 0; i <= MaxCSVRows; i++ {
		b.WriteString("t,s\n")
	}
	_, err = ParsePostsCSV(strings.NewReader(b.String()))
	assert.ErrorIs(t, err, ErrTooManyRows)
}
