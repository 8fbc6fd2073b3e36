// Package web2md converts a single webpage into Markdown. It fetches the
// page, isolates the main content region, converts that region to Markdown,
// rewrites embedded MathML into inline LaTeX and appends the result to a
// running output document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, htmltomarkdown/, http/).
package web2md
