package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/digitalcorenz/web2md"
	"github.com/digitalcorenz/web2md/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Interactive Session
// URLs typed at the prompt accumulate in one output file that is saved
// under a numbered name when the session ends.

var sessionPages = map[string]string{
	"https://example.com/a": `<article class="content"><p>Alpha</p></article>`,
	"https://example.com/b": `<article class="content"><p>Beta <math><msub><mrow>x</mrow><mrow>i</mrow></msub></math></p></article>`,
}

func TestShell_ConvertsAndSavesOutput(t *testing.T) {
	t.Parallel()

	// Given a session with two URLs followed by X
	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	m := newMain(pages(sessionPages), "https://example.com/a\nhttps://example.com/b\nX\n\n")

	// When the shell runs as the default command
	err := m.Run(context.Background(), []string{"--dir", dir}, stdout, &bytes.Buffer{})

	// Then both documents are saved in output01.md with math rewritten
	require.NoError(t, err)
	assert.Equal(t, "Alpha\n\n---\n\nBeta $x_{i}$", readFile(t, filepath.Join(dir, "output01.md")))
	assert.NoFileExists(t, filepath.Join(dir, "output.md"))

	// And the intermediate files are cleared
	assert.Empty(t, readFile(t, filepath.Join(dir, "template.html")))
	assert.Empty(t, readFile(t, filepath.Join(dir, "template.md")))

	// And the session was reported
	out := stdout.String()
	assert.Contains(t, out, "Enter URL (or 'X' to exit):")
	assert.Contains(t, out, "Downloading webpage: https://example.com/a")
	assert.Contains(t, out, "Extracting main content...")
	assert.Contains(t, out, "Save output as [output01.md]:")
	assert.Contains(t, out, "Pages converted: 2")
	assert.Contains(t, out, "Output saved to: output01.md")
	assert.NotContains(t, out, "\033[H\033[2J", "screen is only cleared on a terminal")
}

func TestShell_SkipsExistingOutputNames(t *testing.T) {
	t.Parallel()

	// Given output01.md already exists
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output01.md"), []byte("old"), 0644))
	m := newMain(pages(sessionPages), "https://example.com/a\nx\n\n")

	// When a session converts one page
	err := m.Run(context.Background(), []string{"shell", "--dir", dir}, &bytes.Buffer{}, &bytes.Buffer{})

	// Then the output is saved as output02.md and output01.md is untouched
	require.NoError(t, err)
	assert.Equal(t, "Alpha", readFile(t, filepath.Join(dir, "output02.md")))
	assert.Equal(t, "old", readFile(t, filepath.Join(dir, "output01.md")))
}

func TestShell_CustomOutputName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := newMain(pages(sessionPages), "https://example.com/a\nX\nnotes\n")

	err := m.Run(context.Background(), []string{"--dir", dir}, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "Alpha", readFile(t, filepath.Join(dir, "notes.md")))
}

func TestShell_RetryAfterFailure(t *testing.T) {
	t.Parallel()

	// Given a fetcher that fails once
	dir := t.TempDir()
	var calls atomic.Int32
	inner := pages(sessionPages)
	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*web2md.FetchResult, error) {
			if calls.Add(1) == 1 {
				return nil, web2md.Errorf(web2md.ENETWORK, "failed to download webpage: connection reset")
			}
			return inner.FetchFn(ctx, url)
		},
		CloseFn: func() error { return nil },
	}
	stdout := &bytes.Buffer{}
	m := newMain(fetcher, "https://example.com/a\ny\nX\n\n")

	// When the user retries
	err := m.Run(context.Background(), []string{"--dir", dir}, stdout, &bytes.Buffer{})

	// Then the second attempt is saved
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Error: failed to download webpage: connection reset")
	assert.Contains(t, stdout.String(), "Retry? (y/n):")
	assert.Equal(t, "Alpha", readFile(t, filepath.Join(dir, "output01.md")))
	assert.Equal(t, int32(2), calls.Load())
}

func TestShell_ContinueAfterFailure(t *testing.T) {
	t.Parallel()

	// Given a URL that returns 404
	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	m := newMain(pages(sessionPages), "https://example.com/missing\nn\ny\nhttps://example.com/a\nX\n\n")

	// When the user declines the retry but continues
	err := m.Run(context.Background(), []string{"--dir", dir}, stdout, &bytes.Buffer{})

	// Then the next URL is still converted
	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "Error: HTTP 404 (Not Found - Resource not found)")
	assert.Contains(t, out, "Continue with another URL? (y/n):")
	assert.Contains(t, out, "Pages converted: 1")
	assert.Contains(t, out, "Pages failed:    1")
	assert.Equal(t, "Alpha", readFile(t, filepath.Join(dir, "output01.md")))
}

func TestShell_StopAfterFailure(t *testing.T) {
	t.Parallel()

	// Given a URL that returns 404
	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	m := newMain(pages(sessionPages), "https://example.com/missing\nn\nn\n")

	// When the user declines both the retry and continuing
	err := m.Run(context.Background(), []string{"--dir", dir}, stdout, &bytes.Buffer{})

	// Then the session ends without output
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No output was written.")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "output"), "unexpected %s", e.Name())
	}
}

func TestShell_Interrupted(t *testing.T) {
	t.Parallel()

	// Given a session whose context is already cancelled
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template.md"), []byte("stale"), 0644))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stdout := &bytes.Buffer{}
	m := newMain(pages(sessionPages), "")

	// When the shell runs
	err := m.Run(ctx, []string{"--dir", dir}, stdout, &bytes.Buffer{})

	// Then it exits cleanly after clearing intermediates
	require.NoError(t, err)
	assert.Empty(t, readFile(t, filepath.Join(dir, "template.md")))
	assert.Contains(t, stdout.String(), "Pages converted: 0")
}

func TestShell_InterruptKeepsAccumulatedOutput(t *testing.T) {
	t.Parallel()

	// Given a session that converts one page and then hits end of input
	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	m := newMain(pages(sessionPages), "https://example.com/a\n")

	err := m.Run(context.Background(), []string{"--dir", dir}, stdout, &bytes.Buffer{})

	// Then the default name is used without prompting
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "Save output as")
	assert.Equal(t, "Alpha", readFile(t, filepath.Join(dir, "output01.md")))
}

func TestShell_RejectsInvalidSelector(t *testing.T) {
	t.Parallel()

	m := newMain(pages(sessionPages), "")

	err := m.Run(context.Background(), []string{"--selector", "a[", "--dir", t.TempDir()}, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Equal(t, web2md.EINVALID, web2md.ErrorCode(err))
}
