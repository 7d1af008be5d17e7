// ABOUTME: Access password commands
// ABOUTME: Logs in, logs out, changes the password and reports login and storage status

package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/charm/client"
	"github.com/fatih/color"
	"github.com/harper/carlog/internal/auth"
	"github.com/harper/carlog/internal/config"
	"github.com/spf13/cobra"
)

func newGate() *auth.Gate {
	return auth.NewGate(backend, auth.WithLogger(logger))
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Unlock the vehicle log",
	Long: `Unlock the vehicle log with the access password.

The password is 123456 until it is changed with 'carlog passwd'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret(cmd, "Password: ")
		if err != nil {
			return err
		}
		if err := newGate().Login(password); err != nil {
			if errors.Is(err, auth.ErrWrongPassword) {
				return fmt.Errorf("login failed: %w", err)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Logged in"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Lock the vehicle log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newGate().Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Logged out"))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login state and where the log is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := newGate().LoggedIn()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if in {
			fmt.Fprintln(out, color.GreenString("Logged in"))
		} else {
			fmt.Fprintln(out, color.YellowString("Logged out"))
		}

		name := cfg.GetBackend()
		fmt.Fprintf(out, "Backend:    %s\n", name)
		fmt.Fprintf(out, "Location:   %s\n", cfg.BackendLocation(name))
		if name == config.BackendCharm {
			cc, err := client.NewClientWithDefaults()
			if err != nil {
				fmt.Fprintln(out, color.YellowString("Charm:      not connected"))
				return nil
			}
			user, err := cc.ID()
			if err != nil {
				fmt.Fprintln(out, color.YellowString("Charm:      not linked (run 'charm link')"))
				return nil
			}
			fmt.Fprintf(out, "Charm user: %s\n", user)
		}

		if doSync, _ := cmd.Flags().GetBool("sync"); doSync {
			r, ok := backend.(remote)
			if !ok {
				fmt.Fprintf(out, "Sync:       not available for the %s backend\n", name)
				return nil
			}
			if err := r.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintln(out, color.GreenString("✓ Synced with the charm server"))
		}
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the access password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := readSecret(cmd, "Current password: ")
		if err != nil {
			return err
		}
		next, err := readSecret(cmd, "New password: ")
		if err != nil {
			return err
		}
		again, err := readSecret(cmd, "Confirm new password: ")
		if err != nil {
			return err
		}
		if err := newGate().ChangePassword(current, next, again); err != nil {
			return fmt.Errorf("password not changed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Password changed"))
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("sync", false, "sync with the charm server now")
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, passwdCmd)
}
