package diagfmt

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // as given; long absolute paths become basenames
	PathModeAbsolute                 // always absolute
	PathModeRelative                 // relative to BaseDir when inside it
	PathModeBasename                 // file name only
)

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown around the primary line.
	Context  int8
	PathMode PathMode
	BaseDir  string
	// Width truncates source lines to this many cells; 0 disables it.
	Width       uint8
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON and BuildReport.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	// IncludePositions adds 1-based line and column to every location.
	IncludePositions bool
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
	// Max cuts the report, not the bag; 0 keeps everything.
	Max int
}

// SarifRunMeta fills the tool and invocation sections of a SARIF log.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	PathMode       PathMode
	BaseDir        string
}
