package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/quickbar/internal/actions"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check registry files, including callback names and expressions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := actions.NewBinder(nil)
		if err != nil {
			return err
		}
		var errs []error
		for _, path := range args {
			reg, err := b.LoadRegistry(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d actions)\n", path, reg.Len())
		}
		return errors.Join(errs...)
	},
}
