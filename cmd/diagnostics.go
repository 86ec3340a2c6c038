package cmd

import "fmt"

// DiagnosticCode identifies a CLI diagnostic.
type DiagnosticCode string

// Error codes. An error diagnostic makes the command exit non-zero after it
// has finished its remaining work.
const (
	CodeConfig     DiagnosticCode = "XRFE001" // configuration could not be loaded
	CodeDiscovery  DiagnosticCode = "XRFE002" // document tree could not be walked
	CodeRead       DiagnosticCode = "XRFE003" // document could not be read
	CodeEncoding   DiagnosticCode = "XRFE004" // document is not valid UTF-8
	CodeWrite      DiagnosticCode = "XRFE005" // corrected document could not be written
	CodeHistoryErr DiagnosticCode = "XRFE006" // run history could not be read
)

// Warning codes.
const (
	CodeFrontmatter  DiagnosticCode = "XRFW001" // frontmatter is not valid YAML; links still analyzed
	CodeHistory      DiagnosticCode = "XRFW002" // run could not be recorded
	CodeEditRejected DiagnosticCode = "XRFW003" // correction no longer matches the document text
)

// Diagnostic severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic is a problem found while running a command.
type Diagnostic struct {
	Severity string         `json:"severity"`
	Code     DiagnosticCode `json:"code"`
	Message  string         `json:"message"`
	Path     string         `json:"path,omitempty"`
}

// hasDiagnosticError reports whether any diagnostic in diags has error severity.
func hasDiagnosticError(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CodedError is a fatal command error tagged with its diagnostic code.
type CodedError struct {
	Code DiagnosticCode
	Err  error
}

func (e *CodedError) Error() string { return fmt.Sprintf("%v (%s)", e.Err, e.Code) }

func (e *CodedError) Unwrap() error { return e.Err }

func codedErrorf(code DiagnosticCode, format string, args ...any) error {
	return &CodedError{Code: code, Err: fmt.Errorf(format, args...)}
}
