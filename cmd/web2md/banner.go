package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// bannerWidth is the inner width of splash boxes in terminal columns.
const bannerWidth = 74

const clearScreen = "\033[H\033[2J"

// box draws sections of lines inside a frame. Lines are centered unless
// they start with a space, which keeps them left-aligned with a margin.
func box(sections ...[]string) string {
	var b strings.Builder
	b.WriteString("┏" + strings.Repeat("━", bannerWidth) + "┓\n")
	for i, section := range sections {
		if i > 0 {
			b.WriteString("┠" + strings.Repeat("─", bannerWidth) + "┨\n")
		}
		b.WriteString(boxLine(""))
		for _, line := range section {
			b.WriteString(boxLine(line))
		}
		b.WriteString(boxLine(""))
	}
	b.WriteString("┖" + strings.Repeat("─", bannerWidth) + "┚\n")
	return b.String()
}

func boxLine(text string) string {
	w := runewidth.StringWidth(text)
	if w > bannerWidth {
		text = runewidth.Truncate(text, bannerWidth, "")
		w = runewidth.StringWidth(text)
	}

	left := (bannerWidth - w) / 2
	if strings.HasPrefix(text, " ") {
		left = 0
	}
	right := bannerWidth - w - left
	return "┃" + strings.Repeat(" ", left) + text + strings.Repeat(" ", right) + "┃\n"
}

func title() string {
	return "The Website to Markdown Download Utility (web2md) " + Version
}

// printStartBanner writes the welcome screen, clearing the terminal first
// when clear is set.
func printStartBanner(w io.Writer, clear bool, output string) {
	if clear {
		fmt.Fprint(w, clearScreen)
	}
	fmt.Fprint(w, box(
		[]string{title()},
		[]string{
			"  This utility will download a webpage from a given URL, convert the",
			"  HTML, and save the result to a Markdown file called '" + output + "'.",
			"",
			"  You can provide sequential URLs and the results will be added to",
			"  the end of the output file.",
			"",
			"  To close this utility, you can type 'X then ENTER' or 'CTRL + C'.",
		},
		[]string{
			"  Copy the URL from the address bar of your browser,",
			"  paste (CTRL + SHIFT + V) the URL to this terminal,",
			"  then tap the ENTER key.",
		},
	))
}

// Summary describes a finished shell session.
type Summary struct {
	Converted int
	Failed    int

	// Output is the saved output file, or empty when nothing was written.
	Output string
}

// printEndBanner writes the exit screen with the session summary.
func printEndBanner(w io.Writer, clear bool, s Summary) {
	if clear {
		fmt.Fprint(w, clearScreen)
	}

	saved := "  No output was written."
	if s.Output != "" {
		saved = "  Output saved to: " + s.Output
	}

	fmt.Fprint(w, box(
		[]string{title()},
		[]string{
			fmt.Sprintf("  Pages converted: %d", s.Converted),
			fmt.Sprintf("  Pages failed:    %d", s.Failed),
			saved,
		},
		[]string{
			"MIT License",
			"",
			"© Copyright 2025 DigitalCoreNZ. All rights reserved.",
		},
	))
}
