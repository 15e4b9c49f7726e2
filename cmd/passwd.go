package cmd

import (
	"errors"
	"fmt"
	"os"

	"winamp7/core/auth"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd [password]",
	Short: "Hash an owner password",
	Long:  `Print the bcrypt hash to put in OWNER_PASSWORD_HASH. Without an argument the password is read from the terminal.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			fmt.Fprint(os.Stderr, "Password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = string(raw)
		}
		if password == "" {
			return errors.New("password must not be empty")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}
