package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"user-registration/pkg/form"
	"user-registration/pkg/models"
)

var registerInput models.UserData

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register one user through the form workflow",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		svc, conn, err := newRegistrationService(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		return runRegister(cmd, form.NewController(svc, logger), registerInput)
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerInput.Email, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerInput.FirstName, "first-name", "", "first name")
	registerCmd.Flags().StringVar(&registerInput.LastName, "last-name", "", "last name")
}

// runRegister edits every field, submits and prints the outcome
func runRegister(cmd *cobra.Command, ctrl *form.Controller, data models.UserData) error {
	for _, name := range models.Fields {
		value, _ := data.Get(name)
		if err := ctrl.Edit(name, value); err != nil {
			return err
		}
	}

	view, err := ctrl.Submit(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(view.Errors) > 0 {
		printErrors(out, view.Errors)
		return fmt.Errorf("invalid input")
	}
	fmt.Fprintln(out, view.Status.Message)
	if view.State != form.StateSucceeded {
		return fmt.Errorf("registration failed")
	}
	return nil
}

func printErrors(w io.Writer, errs models.FormErrors) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, errs[name])
	}
}
