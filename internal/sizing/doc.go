package sizing

// Package sizing estimates how much a playlist weighs at fixed quality tiers.
// It classifies each video's encodings into audio-only and video sets, picks
// the best encoding at or below every tier, and sums projected byte sizes
// across the playlist, adding an audio track where the chosen video stream has
// none. Per-video extractor failures are skipped; only the initial playlist
// metadata lookup is fatal.
