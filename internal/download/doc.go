// Package download runs single-video fetches through the extraction service.
// It owns the task table, caps parallel fetches, retries once on failure and
// hands finished files out as delete-on-close deliveries.
package download
