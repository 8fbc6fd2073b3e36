package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/digitalcorenz/web2md"
	"github.com/digitalcorenz/web2md/fs"
	"github.com/digitalcorenz/web2md/goquery"
	"github.com/digitalcorenz/web2md/pipeline"
)

// Intermediate files rewritten on every conversion and cleared on exit.
const (
	TemplateHTML     = "template.html"
	TemplateMarkdown = "template.md"
)

// Run executes the interactive shell. It returns nil on a normal exit and
// on interrupt.
func (c *ShellCmd) Run(deps *Dependencies) error {
	// Checked once up front so a bad selector doesn't fail every URL.
	if err := goquery.ValidateSelectors(c.Selector); err != nil {
		return err
	}

	p := *deps.Pipeline
	if c.NoMath {
		p.Rewriter = nil
	}
	conversion := c.Conversion.Apply(deps.Config.Conversion)

	s := &shell{
		ctx:    deps.Ctx,
		lines:  readLines(deps.Stdin),
		stdout: deps.Stdout,
		files:  deps.Files,
		output: c.Output,
		dir:    deps.Config.Dir,
		prefix: deps.Config.OutputPrefix,
		run: func(ctx context.Context, url string) error {
			result, err := p.Run(ctx, url, pipeline.RunOptions{
				HTMLPath:     TemplateHTML,
				MarkdownPath: TemplateMarkdown,
				Selectors:    deps.Config.selectors(c.Selector),
				Conversion:   &conversion,
				Overwrite:    true,
				Progress:     printProgress(deps.Stdout),
			})
			if err != nil {
				return err
			}
			if err := p.Append(result.Markdown, c.Output); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Appended to: %s\n", c.Output)
			return nil
		},
	}

	printStartBanner(deps.Stdout, deps.Terminal, c.Output)
	s.loop()
	summary := s.finish()
	printEndBanner(deps.Stdout, deps.Terminal, summary)
	return nil
}

type shell struct {
	ctx    context.Context
	lines  <-chan string
	stdout io.Writer
	files  web2md.FileService
	run    func(ctx context.Context, url string) error

	output string
	dir    string
	prefix string

	converted   int
	failed      int
	interrupted bool
}

// readLines delivers stdin lines on a channel that is closed at EOF, so
// prompts can also wait on context cancellation.
func readLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- scanner.Text()
		}
	}()
	return ch
}

// prompt writes question and waits for a line. It reports false on
// interrupt or end of input.
func (s *shell) prompt(question string) (string, bool) {
	fmt.Fprint(s.stdout, question)
	select {
	case <-s.ctx.Done():
		s.interrupted = true
		fmt.Fprintln(s.stdout)
		return "", false
	case line, ok := <-s.lines:
		if !ok {
			s.interrupted = true
			fmt.Fprintln(s.stdout)
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// confirm asks a yes/no question. Anything other than an answer starting
// with y counts as no.
func (s *shell) confirm(question string) bool {
	answer, ok := s.prompt(question + " (y/n): ")
	return ok && strings.HasPrefix(strings.ToLower(answer), "y")
}

func (s *shell) loop() {
	for {
		url, ok := s.prompt("\nEnter URL (or 'X' to exit): ")
		if !ok || strings.EqualFold(url, "x") {
			return
		}
		if url == "" {
			continue
		}
		if !s.convert(url) {
			if s.interrupted || !s.confirm("Continue with another URL?") {
				return
			}
		}
	}
}

// convert runs one URL, offering retries. It reports whether the URL was
// converted.
func (s *shell) convert(url string) bool {
	for {
		err := s.run(s.ctx, url)
		if err == nil {
			s.converted++
			return true
		}
		if s.ctx.Err() != nil {
			s.interrupted = true
			s.failed++
			return false
		}
		fmt.Fprintf(s.stdout, "Error: %s\n", web2md.ErrorMessage(err))
		if !s.confirm("Retry?") {
			s.failed++
			return false
		}
	}
}

// finish clears the intermediate files and saves the output under its
// final name. It returns the session summary.
func (s *shell) finish() Summary {
	summary := Summary{Converted: s.converted, Failed: s.failed}

	for _, path := range []string{TemplateHTML, TemplateMarkdown} {
		if err := s.files.ClearFile(path); err != nil {
			fmt.Fprintf(s.stdout, "Error: %s\n", web2md.ErrorMessage(err))
		}
	}

	if !s.files.Exists(s.output) {
		return summary
	}
	content, err := s.files.ReadFile(s.output)
	if err != nil || content == "" {
		return summary
	}

	ext := filepath.Ext(s.output)
	if ext == "" {
		ext = ".md"
	}
	for {
		name := fs.NextOutputName(s.dir, s.prefix, ext)
		if !s.interrupted {
			answer, ok := s.prompt(fmt.Sprintf("\nSave output as [%s]: ", name))
			if ok && answer != "" {
				name = answer
				if filepath.Ext(name) == "" {
					name += ext
				}
			}
		}

		err := s.files.RenameFile(s.output, name)
		if err == nil {
			summary.Output = name
			return summary
		}
		fmt.Fprintf(s.stdout, "Error: %s\n", web2md.ErrorMessage(err))
		if s.interrupted {
			summary.Output = s.output
			return summary
		}
	}
}

// printProgress reports pipeline stages the way the download tool always has.
func printProgress(w io.Writer) pipeline.ProgressFunc {
	return func(e pipeline.ProgressEvent) {
		switch e.Type {
		case pipeline.ProgressDownloading:
			fmt.Fprintf(w, "Downloading webpage: %s\n", e.URL)
		case pipeline.ProgressDownloaded:
			fmt.Fprintf(w, "Download successful: %s\n", e.Result.StatusDescription)
			fmt.Fprintf(w, "Content length: %d characters\n", e.Result.Length)
		case pipeline.ProgressSavedHTML:
			fmt.Fprintf(w, "HTML saved to: %s\n", e.Path)
		case pipeline.ProgressExtracting:
			fmt.Fprintln(w, "Extracting main content...")
		case pipeline.ProgressConverting:
			fmt.Fprintln(w, "Converting to Markdown...")
		case pipeline.ProgressSavedMarkdown:
			fmt.Fprintf(w, "Markdown saved to: %s\n", e.Path)
		}
	}
}
