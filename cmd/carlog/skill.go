// ABOUTME: Install Claude Code skill for carlog
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the carlog skill for Claude Code.

This copies the skill definition to ~/.claude/skills/carlog/
so Claude Code can use carlog commands contextually.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStoreAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(cmd.InOrStdin(), cmd.OutOrStdout(), home, skillSkipConfirm)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "carlog", "SKILL.md")
}

func installSkill(in io.Reader, out io.Writer, home string, skipConfirm bool) error {
	path := skillPath(home)

	fmt.Fprintln(out, "┌─────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(out, "│             carlog Skill for Claude Code                    │")
	fmt.Fprintln(out, "└─────────────────────────────────────────────────────────────┘")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This will install the carlog skill, enabling Claude Code to:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  • Log maintenance visits and fill-ups")
	fmt.Fprintln(out, "  • Track reminders and spare parts")
	fmt.Fprintln(out, "  • Read the dashboard")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Destination:")
	fmt.Fprintf(out, "  %s\n", path)
	fmt.Fprintln(out)

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		fmt.Fprintln(out)
	}

	if !skipConfirm {
		ok, err := confirm(in, out, "Install the carlog skill?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil { // #nosec G301 - skill dir needs to be readable
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil { // #nosec G306 - skill file needs to be readable
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Fprintln(out, "✓ Installed carlog skill successfully!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Try asking Claude: \"I changed the oil today at 12000 km\" or \"When is my next service due?\"")
	return nil
}
