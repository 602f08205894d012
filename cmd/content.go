package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/contentfile"
)

// The content commands always exit 0: failures are printed, not returned.
var contentCmd = &cobra.Command{
	Use:   "content [backup|update|backup-and-update]",
	Short: "Back up or replace the content document",
	Long: `Maintains config/content.json.

  backup                      copy the document to the backup directory
  update <file-or-json>       replace the document with a file's bytes or the literal text
  backup-and-update <json>    back up, then replace only if the backup succeeded`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s\n", args[0])
		fmt.Fprintln(cmd.OutOrStdout(), `Use "backup", "update", or "backup-and-update"`)
	},
}

var contentBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the content document into the backup directory",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withContent(cmd, func(cc *contentCtx) {
			cc.backup()
		})
	},
}

var contentUpdateCmd = &cobra.Command{
	Use:   "update <file-or-json>",
	Short: "Replace the content document",
	Long:  `Replaces the content document. If the argument names an existing file its bytes are used, otherwise the argument itself is written. The content is not validated.`,
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: provide a JSON file path or JSON content")
			return
		}
		withContent(cmd, func(cc *contentCtx) {
			data, fromFile, err := contentfile.ReadSource(args[0])
			if err != nil {
				cc.fail("Content update failed", err)
				return
			}
			if fromFile {
				vlogf("reading new content from %s", args[0])
			}
			cc.update(audit.ActionUpdate, data, "")
		})
	},
}

var contentBackupAndUpdateCmd = &cobra.Command{
	Use:   "backup-and-update <json>",
	Short: "Back up the content document, then replace it",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: provide JSON content to update with")
			return
		}
		withContent(cmd, func(cc *contentCtx) {
			fmt.Fprintln(cc.out, "Creating backup and updating content...")
			path, ok := cc.backup()
			if !ok {
				return
			}
			cc.update(audit.ActionBackupAndUpdate, []byte(args[0]), path)
		})
	},
}

func init() {
	contentCmd.AddCommand(contentBackupCmd, contentUpdateCmd, contentBackupAndUpdateCmd)
	rootCmd.AddCommand(contentCmd)
}

// contentCtx carries what every content subcommand needs.
type contentCtx struct {
	ctx     context.Context
	out     io.Writer
	errOut  io.Writer
	store   *contentfile.Store
	history *audit.Store
}

func withContent(cmd *cobra.Command, fn func(cc *contentCtx)) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	history, closeHistory := openHistory(cfg)
	defer closeHistory()

	fn(&contentCtx{
		ctx:     cmd.Context(),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		store:   contentStore(cfg),
		history: history,
	})
}

func (cc *contentCtx) fail(what string, err error) {
	fmt.Fprintf(cc.errOut, "%s: %v\n", what, err)
}

func (cc *contentCtx) backup() (string, bool) {
	path, err := cc.store.Backup()
	if err != nil {
		cc.fail("Backup failed", err)
		return "", false
	}
	fmt.Fprintf(cc.out, "Backup created: %s\n", path)
	cc.record(audit.Entry{
		Action:     audit.ActionBackup,
		Summary:    "Backed up content document",
		BackupPath: path,
	})
	return path, true
}

func (cc *contentCtx) update(action audit.Action, data []byte, backupPath string) {
	previous, _ := cc.store.Read()
	if err := cc.store.Update(data); err != nil {
		cc.fail("Content update failed", err)
		return
	}
	fmt.Fprintf(cc.out, "Content updated: %s\n", cc.store.Path)
	cc.record(audit.Entry{
		Action:        action,
		Summary:       fmt.Sprintf("Replaced content document (%d bytes)", len(data)),
		BackupPath:    backupPath,
		PreviousValue: string(previous),
		NewValue:      string(data),
	})
}

func (cc *contentCtx) record(e audit.Entry) {
	e.Target = cc.store.Path
	if err := cc.history.Log(cc.ctx, e); err != nil {
		fmt.Fprintf(cc.errOut, "Warning: recording history: %v\n", err)
	}
}
