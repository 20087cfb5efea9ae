// Package ui renders the browser front end: the URL form, the encoding picker
// for a single video, the playlist notice and the playlist size table. Pages
// are server-rendered html/template views translated through Localization.
package ui
