package logging

// Package logging wraps a process-wide zerolog logger. It is configured once
// from the CLI (level, json/console format) and carries request and analysis
// run IDs through context so handlers and services log with the same fields.
