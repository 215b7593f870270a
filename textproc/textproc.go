// Package textproc provides the deterministic text transforms surrounding
// translation: pre-translation normalization, post-translation cleanup,
// sentence-boundary segmentation for long inputs, and visible-text extraction
// from HTML. All functions are pure and safe for concurrent use.
package textproc
