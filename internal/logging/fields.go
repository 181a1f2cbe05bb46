package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFile       = "file"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run fields.
	FieldScript = "script"
	FieldFlavor = "flavor"
	FieldFocus  = "focus"
	FieldFormat = "format"
	FieldWrite  = "write"
	FieldJobs   = "jobs"

	// Step and range fields.
	FieldStep      = "step"
	FieldOp        = "op"
	FieldNode      = "node"
	FieldOffset    = "offset"
	FieldContainer = "container"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldStepsTotal      = "steps_total"
	FieldStepsFailed     = "steps_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
