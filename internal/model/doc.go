package model

// Package model defines domain data structures used across the app: extractor
// encodings and metadata, playlist aggregate results, and download tasks with
// their status enums. Structures are plain values so presentation layers can
// render them read-only.
