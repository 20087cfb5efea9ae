package ui

// Text fragments
const (
	LabelSeparator  = " | "
	DashPlaceholder = "—"
	MBLabelFormat   = "%.2f MB"
)

// Template names
const (
	PageIndex    = "index"
	PageInspect  = "inspect"
	PageAnalysis = "analysis"
)
