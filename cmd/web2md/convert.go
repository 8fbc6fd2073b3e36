package main

import (
	"fmt"
	"io"

	"github.com/digitalcorenz/web2md/pipeline"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	// Markdown printed to stdout keeps progress out of the way on stderr.
	var progress io.Writer = deps.Stdout
	if c.MDFile == "" {
		progress = deps.Stderr
	}

	opts := pipeline.RunOptions{
		HTMLPath:  c.HTMLFile,
		Selectors: deps.Config.selectors(c.Selector),
		Overwrite: c.Overwrite,
	}
	conversion := c.Conversion.Apply(deps.Config.Conversion)
	opts.Conversion = &conversion
	if !c.Quiet {
		opts.Progress = printProgress(progress)
	}

	result, err := deps.Pipeline.Run(deps.Ctx, c.URL, opts)
	if err != nil {
		return err
	}

	markdown := result.Markdown
	if !c.NoMath && deps.Pipeline.Rewriter != nil {
		markdown = deps.Pipeline.Rewriter.Rewrite(markdown)
	}

	if c.MDFile == "" {
		fmt.Fprintln(deps.Stdout, markdown)
		return nil
	}

	if err := deps.Files.WriteFile(c.MDFile, markdown, c.Overwrite); err != nil {
		return err
	}
	if !c.Quiet {
		fmt.Fprintf(deps.Stdout, "Markdown saved to: %s\n", c.MDFile)
	}
	return nil
}
