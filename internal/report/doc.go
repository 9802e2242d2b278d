// Package report provides resolution output in multiple formats.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured wire-format JSON for tool integration
//   - MarkdownWriter: Markdown documents for sharing
//   - HTMLWriter: Standalone HTML pages
//
// Design decision: We separate resolution writing from resolution data
// structures (which are in the model package) to follow the single
// responsibility principle. This allows adding new output formats
// without modifying the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
