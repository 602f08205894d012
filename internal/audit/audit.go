// Package audit records the maintenance operations applied to a site: content
// backups and updates, link repairs and title patches.
package audit

import "time"

// Actor identifies which surface performed an action.
type Actor string

const (
	ActorCLI Actor = "cli"
	ActorMCP Actor = "mcp"
)

// Action describes what was done.
type Action string

const (
	ActionBackup          Action = "backup"
	ActionUpdate          Action = "update"
	ActionBackupAndUpdate Action = "backup_and_update"
	ActionLinkFix         Action = "link_fix"
	ActionRetitle         Action = "retitle"
)

// Entry is a single history record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Actor         Actor     `json:"actor"`
	Action        Action    `json:"action"`
	Target        string    `json:"target"`
	Summary       string    `json:"summary"`
	Detail        string    `json:"detail,omitempty"`
	BackupPath    string    `json:"backup_path,omitempty"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}
