package cmd

import (
	"errors"
	"fmt"

	"github.com/careconnect-ai/careconnect/internal/auth"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage caregiver accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a caregiver account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		u, err := rt.authService().SignUp(cmd.Context(), name, email, password)
		if err != nil {
			if fes := auth.FieldErrors(err); len(fes) > 0 {
				for _, fe := range fes {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Msg)
				}
				return errors.New("invalid account details")
			}
			return fmt.Errorf("create account: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created account for %s <%s>\n", u.Name, u.Email)
		return nil
	},
}

func init() {
	f := accountCreateCmd.Flags()
	f.String("name", "", "Full name")
	f.String("email", "", "Email address")
	f.String("password", "", "Password (at least 6 characters)")
	_ = accountCreateCmd.MarkFlagRequired("email")
	_ = accountCreateCmd.MarkFlagRequired("password")

	accountCmd.AddCommand(accountCreateCmd)
}
