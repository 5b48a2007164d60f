package main

import (
	"net/url"
)

// Default directory and file names.
const (
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "oraddl.yaml"

	// DefaultPlansDir is scanned when no plan paths are given.
	DefaultPlansDir = "./plans"

	// DefaultOutput is the default script path.
	DefaultOutput = "./build/idempotent.sql"

	// StdoutPath writes the script to stdout instead of a file.
	StdoutPath = "-"
)

// DB URL display configuration.
const (
	// DBURLMaskLength is the max characters shown before masking with "...".
	DBURLMaskLength = 60
)

// Panel titles.
const (
	TitleScriptGenerated = "Script Generated"
	TitleApplyScript     = "Apply Script"
	TitleScriptApplied   = "Script Applied"
	TitleApplyFailed     = "Apply Failed"
	TitleDryRun          = "Dry Run"
	TitleHistory         = "Apply History"
	TitleKinds           = "Operation Kinds"
)

// Messages for consistent CLI output.
const (
	MsgApplyCancelled = "Apply cancelled"
	MsgNoCommands     = "The plans produced no commands"
	MsgNoHistory      = "No applies have been recorded."
	MsgWatching       = "Watching %s for changes (Ctrl+C to stop)"
)

// Confirmation prompts
const (
	PromptApply = "Apply %s to %s?"
)

// Flag descriptions for consistent CLI flag help text.
const (
	FlagDescDryRun          = "Print the script without executing"
	FlagDescYes             = "Skip confirmation prompt"
	FlagDescJSON            = "Output as JSON for CI/CD"
	FlagDescStrict          = "Fail when a nested trigger or comment string is never closed"
	FlagDescSkipUnsupported = "Skip operations Oracle cannot express instead of failing"
	FlagDescScript          = "Use a generated script instead of plan files"
	FlagDescNoVerify        = "Do not check the script against its lockfile"
)

// MaskDatabaseURL removes the password from a database URL and truncates
// it for display.
func MaskDatabaseURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			raw = u.String()
		}
	}
	if len(raw) > DBURLMaskLength {
		return raw[:DBURLMaskLength] + "..."
	}
	return raw
}
