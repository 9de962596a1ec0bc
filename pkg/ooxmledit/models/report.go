package models

import "encoding/json"

// WarningKind classifies a non-fatal edit warning.
type WarningKind string

// WarningFormulaCleared is reported when a value edit removes a formula.
const WarningFormulaCleared WarningKind = "formula_cleared"

// Warning is a non-fatal condition produced by an edit.
type Warning struct {
	// Kind classifies the warning.
	Kind WarningKind `json:"kind"`
	// Sheet is the sheet name.
	Sheet string `json:"sheet"`
	// Cell is the cell reference.
	Cell string `json:"cell"`
	// Formula is the removed formula without the leading "=".
	Formula string `json:"formula,omitempty"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

// StaleReference is a model unit whose reference no longer resolves in the
// source part. Its change is skipped.
type StaleReference struct {
	// Ref is the positional reference that failed to resolve.
	Ref string `json:"ref"`
	// Kind is the unit kind (paragraph, table, row, cell, run, checkbox, dropdown).
	Kind string `json:"kind"`
	// Reason describes the failure.
	Reason string `json:"reason"`
}

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue is one structural problem found in a model.
type ValidationIssue struct {
	// Severity grades the issue; only errors make a model invalid.
	Severity Severity `json:"severity"`
	// Code is a stable machine-readable identifier, e.g. "duplicate_id".
	Code string `json:"code"`
	// Ref locates the offending unit (an id, reference or cell address).
	Ref string `json:"ref,omitempty"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

// ValidationReport is the outcome of a validation run.
type ValidationReport struct {
	// Valid is true when no issue has error severity.
	Valid bool `json:"valid"`
	// Issues lists every issue found, in discovery order.
	Issues []ValidationIssue `json:"issues"`
}

// Add records an issue and updates Valid.
func (r *ValidationReport) Add(sev Severity, code, ref, msg string) {
	r.Issues = append(r.Issues, ValidationIssue{Severity: sev, Code: code, Ref: ref, Message: msg})
	if sev == SeverityError {
		r.Valid = false
	}
}

// Errors returns the error-severity issues.
func (r *ValidationReport) Errors() []ValidationIssue {
	var out []ValidationIssue
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			out = append(out, is)
		}
	}
	return out
}

// Snapshot is the persisted state of an edit session.
type Snapshot struct {
	// DocumentID identifies the session.
	DocumentID string `json:"document_id"`
	// Format is "docx" or "xlsx".
	Format string `json:"format"`
	// BaseContainerPath is where the container the model was parsed from (or
	// last exported to) is stored.
	BaseContainerPath string `json:"base_container_path"`
	// SerializedModel is the JSON encoding of the model.
	SerializedModel json.RawMessage `json:"serialized_model"`
	// Version increments with every saved edit.
	Version int `json:"version"`
	// LatestExportPath is the most recent export destination, if any.
	LatestExportPath string `json:"latest_export_path,omitempty"`
}
