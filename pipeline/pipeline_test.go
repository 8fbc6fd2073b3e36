package pipeline_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/digitalcorenz/web2md"
	"github.com/digitalcorenz/web2md/fs"
	"github.com/digitalcorenz/web2md/goquery"
	"github.com/digitalcorenz/web2md/htmltomarkdown"
	web2mdhttp "github.com/digitalcorenz/web2md/http"
	"github.com/digitalcorenz/web2md/mathml"
	"github.com/digitalcorenz/web2md/mock"
	"github.com/digitalcorenz/web2md/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetcherReturning(body string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*web2md.FetchResult, error) {
			return &web2md.FetchResult{
				Body:              body,
				StatusCode:        200,
				StatusDescription: web2md.StatusDescription(200),
				ResolvedURL:       url,
			}, nil
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("fetch failure writes no files", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (*web2md.FetchResult, error) {
					return nil, web2md.NetworkErrorf(404, "HTTP 404 (%s)", web2md.StatusDescription(404))
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string, selectors []string) (*web2md.ExtractResult, error) {
					t.Fatal("extract must not be called")
					return nil, nil
				},
			},
			Files: files,
		}

		_, err := p.Run(context.Background(), "https://example.com/missing", pipeline.RunOptions{
			HTMLPath:     "template.html",
			MarkdownPath: "template.md",
		})

		require.Error(t, err)
		assert.Equal(t, web2md.ENETWORK, web2md.ErrorCode(err))
		assert.Equal(t, 404, web2md.ErrorStatusCode(err))
		assert.Contains(t, web2md.ErrorMessage(err), "404")
		assert.Empty(t, contents)
	})

	t.Run("saves intermediates and passes options through", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		conv := web2md.DefaultConversionOptions()
		var gotSelectors []string
		var gotOpts *web2md.ConversionOptions
		p := &pipeline.Pipeline{
			Fetcher: fetcherReturning("<html><main><p>Hi</p></main></html>"),
			Extractor: &mock.Extractor{
				ExtractFn: func(html string, selectors []string) (*web2md.ExtractResult, error) {
					gotSelectors = selectors
					return &web2md.ExtractResult{Title: "T", ContentHTML: "<main><p>Hi</p></main>", Selector: "main"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html string, opts *web2md.ConversionOptions) (string, error) {
					gotOpts = opts
					return "Hi", nil
				},
			},
			Files: files,
		}

		result, err := p.Run(context.Background(), "https://example.com", pipeline.RunOptions{
			HTMLPath:     "template.html",
			MarkdownPath: "template.md",
			Selectors:    []string{"main"},
			Conversion:   &conv,
		})

		require.NoError(t, err)
		assert.Equal(t, "Hi", result.Markdown)
		assert.Equal(t, "T", result.Title)
		assert.Equal(t, "main", result.Selector)
		assert.Equal(t, 200, result.StatusCode)
		assert.Equal(t, len("<html><main><p>Hi</p></main></html>"), result.Length)
		assert.Equal(t, []string{"main"}, gotSelectors)
		assert.Same(t, &conv, gotOpts)
		assert.Equal(t, "<html><main><p>Hi</p></main></html>", contents["template.html"])
		assert.Equal(t, "Hi", contents["template.md"])
	})

	t.Run("extraction failure keeps saved HTML", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		p := &pipeline.Pipeline{
			Fetcher: fetcherReturning("<p>no blocks</p>"),
			Extractor: &mock.Extractor{
				ExtractFn: func(html string, selectors []string) (*web2md.ExtractResult, error) {
					return nil, web2md.Errorf(web2md.EEXTRACT, "could not extract main content from webpage")
				},
			},
			Files: files,
		}

		_, err := p.Run(context.Background(), "https://example.com", pipeline.RunOptions{
			HTMLPath:     "template.html",
			MarkdownPath: "template.md",
		})

		require.Error(t, err)
		assert.Equal(t, web2md.EEXTRACT, web2md.ErrorCode(err))
		assert.Equal(t, "<p>no blocks</p>", contents["template.html"])
		_, ok := contents["template.md"]
		assert.False(t, ok)
	})

	t.Run("existing file without overwrite is a file error", func(t *testing.T) {
		t.Parallel()

		files, _ := mock.MemoryFiles()
		require.NoError(t, files.WriteFile("page.html", "old", false))
		p := &pipeline.Pipeline{
			Fetcher: fetcherReturning("<p>x</p>"),
			Files:   files,
		}

		_, err := p.Run(context.Background(), "https://example.com", pipeline.RunOptions{HTMLPath: "page.html"})

		assert.Equal(t, web2md.EFILE, web2md.ErrorCode(err))
	})

	t.Run("reports progress in order", func(t *testing.T) {
		t.Parallel()

		files, _ := mock.MemoryFiles()
		p := &pipeline.Pipeline{
			Fetcher: fetcherReturning("<main>x</main>"),
			Extractor: &mock.Extractor{
				ExtractFn: func(html string, selectors []string) (*web2md.ExtractResult, error) {
					return &web2md.ExtractResult{ContentHTML: html}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html string, opts *web2md.ConversionOptions) (string, error) {
					return "x", nil
				},
			},
			Files: files,
		}

		var events []pipeline.ProgressType
		_, err := p.Run(context.Background(), "https://example.com", pipeline.RunOptions{
			HTMLPath:     "template.html",
			MarkdownPath: "template.md",
			Progress: func(e pipeline.ProgressEvent) {
				events = append(events, e.Type)
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []pipeline.ProgressType{
			pipeline.ProgressDownloading,
			pipeline.ProgressDownloaded,
			pipeline.ProgressSavedHTML,
			pipeline.ProgressExtracting,
			pipeline.ProgressConverting,
			pipeline.ProgressSavedMarkdown,
		}, events)
	})

	t.Run("converter error is returned unchanged", func(t *testing.T) {
		t.Parallel()

		files, _ := mock.MemoryFiles()
		boom := web2md.Errorf(web2md.EINTERNAL, "boom")
		p := &pipeline.Pipeline{
			Fetcher: fetcherReturning("<main>x</main>"),
			Extractor: &mock.Extractor{
				ExtractFn: func(html string, selectors []string) (*web2md.ExtractResult, error) {
					return &web2md.ExtractResult{ContentHTML: html}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html string, opts *web2md.ConversionOptions) (string, error) {
					return "", boom
				},
			},
			Files: files,
		}

		_, err := p.Run(context.Background(), "https://example.com", pipeline.RunOptions{})

		assert.True(t, errors.Is(err, boom))
	})
}

func TestPipeline_Append(t *testing.T) {
	t.Parallel()

	t.Run("rewrites math and separates documents", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		p := &pipeline.Pipeline{Files: files, Rewriter: mathml.NewRewriter()}

		require.NoError(t, p.Append("# One", "output.md"))
		require.NoError(t, p.Append("Square: <math><msup><mrow>x</mrow><mrow>2</mrow></msup></math>", "output.md"))

		assert.Equal(t, "# One\n\n---\n\nSquare: $x^{2}$", contents["output.md"])
	})

	t.Run("nil rewriter leaves math alone", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		p := &pipeline.Pipeline{Files: files}

		require.NoError(t, p.Append("<math><mi>x</mi></math>", "output.md"))

		assert.Equal(t, "<math><mi>x</mi></math>", contents["output.md"])
	})

	t.Run("whitespace document is rejected", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		p := &pipeline.Pipeline{Files: files}

		err := p.Append(" \n\t", "output.md")

		assert.Equal(t, web2md.EINVALID, web2md.ErrorCode(err))
		assert.Empty(t, contents)
	})
}

func TestPipeline_AppendFile(t *testing.T) {
	t.Parallel()

	t.Run("missing input is a file error", func(t *testing.T) {
		t.Parallel()

		files, _ := mock.MemoryFiles()
		p := &pipeline.Pipeline{Files: files}

		err := p.AppendFile("template.md", "output.md")

		assert.Equal(t, web2md.EFILE, web2md.ErrorCode(err))
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		require.NoError(t, files.ClearFile("template.md"))
		p := &pipeline.Pipeline{Files: files}

		err := p.AppendFile("template.md", "output.md")

		assert.Equal(t, web2md.EINVALID, web2md.ErrorCode(err))
		assert.Contains(t, web2md.ErrorMessage(err), "template.md")
		_, ok := contents["output.md"]
		assert.False(t, ok)
	})

	t.Run("appends input content", func(t *testing.T) {
		t.Parallel()

		files, contents := mock.MemoryFiles()
		require.NoError(t, files.WriteFile("template.md", "Hello", false))
		p := &pipeline.Pipeline{Files: files, Rewriter: mathml.NewRewriter()}

		require.NoError(t, p.AppendFile("template.md", "output.md"))

		assert.Equal(t, "Hello", contents["output.md"])
	})
}

// Story: Converting a Page End to End
// Real transport, extractor, converter and files against a local server.

func TestPipeline_EndToEnd(t *testing.T) {
	t.Parallel()

	newPipeline := func(dir string) *pipeline.Pipeline {
		return &pipeline.Pipeline{
			Fetcher:   web2mdhttp.NewFetcher(),
			Extractor: goquery.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Rewriter:  mathml.NewRewriter(),
			Files:     fs.NewFileService(dir),
		}
	}

	t.Run("content article becomes Hello", func(t *testing.T) {
		t.Parallel()

		// Given a page with a content article
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><title>Greeting</title></head><body>
<nav>Menu</nav>
<article class="content"><p>Hello</p></article>
</body></html>`))
		}))
		defer srv.Close()
		dir := t.TempDir()
		p := newPipeline(dir)

		// When I run the pipeline and append the result
		result, err := p.Run(context.Background(), srv.URL, pipeline.RunOptions{
			HTMLPath:     "template.html",
			MarkdownPath: "template.md",
			Overwrite:    true,
		})
		require.NoError(t, err)
		require.NoError(t, p.AppendFile("template.md", "output.md"))

		// Then the Markdown is exactly Hello
		assert.Equal(t, "Hello", result.Markdown)
		assert.Equal(t, "article.content", result.Selector)
		assert.Equal(t, "Greeting", result.Title)
		output, err := os.ReadFile(filepath.Join(dir, "output.md"))
		require.NoError(t, err)
		assert.Equal(t, "Hello", string(output))
		assert.FileExists(t, filepath.Join(dir, "template.html"))
	})

	t.Run("404 writes nothing", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		dir := t.TempDir()
		p := newPipeline(dir)

		_, err := p.Run(context.Background(), srv.URL, pipeline.RunOptions{
			HTMLPath:     "template.html",
			MarkdownPath: "template.md",
		})

		require.Error(t, err)
		assert.Equal(t, web2md.ENETWORK, web2md.ErrorCode(err))
		assert.Contains(t, web2md.ErrorMessage(err), "404")
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("math survives conversion and is rewritten on append", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body><main>
<p>Ratio <math><mfrac><mrow><mi>a</mi></mrow><mrow><mi>b</mi></mrow></mfrac></math> holds.</p>
</main></body></html>`))
		}))
		defer srv.Close()
		dir := t.TempDir()
		p := newPipeline(dir)

		result, err := p.Run(context.Background(), srv.URL, pipeline.RunOptions{})
		require.NoError(t, err)
		require.NoError(t, p.Append(result.Markdown, "output.md"))

		output, err := os.ReadFile(filepath.Join(dir, "output.md"))
		require.NoError(t, err)
		assert.Contains(t, string(output), `$\frac{a}{b}$`)
		assert.False(t, strings.Contains(string(output), "<math"))
	})
}
