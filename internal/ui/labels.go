package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ytget/ytweb/internal/model"
)

// AudioLabel renders "<size> MB | .<ext>" for an audio-only encoding
func AudioLabel(e model.Encoding) string {
	return fmt.Sprintf(MBLabelFormat, sizeMB(e)) + LabelSeparator + extLabel(e)
}

// VideoLabel renders "<height>p | <size> MB | .<ext>". A missing height shows as "?p".
func VideoLabel(e model.Encoding) string {
	return strings.Join([]string{
		e.ResolutionLabel(),
		fmt.Sprintf(MBLabelFormat, sizeMB(e)),
		extLabel(e),
	}, LabelSeparator)
}

// HumanBytes formats a byte count with IEC units, e.g. "39 MiB"
func HumanBytes(b int64) string {
	if b <= 0 {
		return DashPlaceholder
	}
	return humanize.IBytes(uint64(b))
}

// FormatMB formats a byte count as megabytes with two decimals
func FormatMB(b int64) string {
	return fmt.Sprintf(MBLabelFormat, model.BytesToMB(b))
}

func sizeMB(e model.Encoding) float64 {
	return float64(e.Size()) / model.BytesPerMB
}

func extLabel(e model.Encoding) string {
	return "." + e.Container
}
