package ui

// Instance table column titles
const (
	ColName      = "NAME"
	ColInstance  = "INSTANCE ID"
	ColState     = "STATE"
	ColType      = "TYPE"
	ColPrivateIP = "PRIVATE IP"
	ColPublicIP  = "PUBLIC IP"
	ColAZ        = "AZ"
)

// Forward table column titles
const (
	ColForward = "FORWARD"
	ColLocal   = "LOCAL"
	ColRemote  = "REMOTE"
	ColStatus  = "STATUS"
	ColStarted = "STARTED"
	ColEnded   = "ENDED"
)

// Keyboard shortcuts
const (
	ShortcutQuit        = "q"
	ShortcutConnect     = "c"
	ShortcutRefresh     = "r"
	ShortcutAddForward  = "p"
	ShortcutCopyCommand = "y"
	ShortcutStopForward = "x"
	ShortcutStartAgain  = "s"
	ShortcutAddInDetail = "a"
	ShortcutCyclePreset = "ctrl+p"
)

// Numeric constants for layout
const (
	MinTableHeight      = 4  // Minimum height for tables after calculation
	InstancesViewOffset = 10 // Non-table lines in the instances view for height calc
	DetailTableHeight   = 6  // Fixed height for the two detail tables
	ActivityLogLines    = 5  // Log lines shown at the bottom of the main view
	MaxActivityLog      = 500
)

// Lipgloss colors
const (
	ColorBorder     = "240"
	ColorSelectedFg = "229"
	ColorSelectedBg = "57"
	ColorTitle      = "14"  // Cyan for titles
	ColorHelp       = "245" // Grey for help text
	ColorError      = "9"   // Red for errors
	ColorStatus     = "10"  // Green for status messages
	ColorDim        = "8"   // Grey for secondary text
	ColorWarn       = "11"  // Yellow for warnings
)
