// Package platform adapts external tooling to the rest of the application:
// the yt-dlp extraction service (metadata, encoding lists, fetches), native
// YouTube playlist resolution and the filesystem helpers used on delivery.
package platform
