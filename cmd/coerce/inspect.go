package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/value"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [input]",
	Short: "Show how an input is loaded into the value model",
	Long: `Load a single input (a file, or stdin when omitted or "-") and print the
value tree with every alternate interpretation the loader found. No schema
is involved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		opt, err := cfg.loadOpt()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-bytes") {
			if opt.MaxBytes, err = cmd.Flags().GetInt64("max-bytes"); err != nil {
				return fmt.Errorf("failed to get max-bytes flag: %w", err)
			}
		}
		inputs, err := readInputs(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return inspectInput(cmd.OutOrStdout(), cmd.ErrOrStderr(), inputs[0], opt)
	},
}

func init() {
	inspectCmd.Flags().String("driver", "", "strict JSON driver (go-json|encoding/json)")
	inspectCmd.Flags().Int64("max-bytes", 0, "truncate text inputs to this many bytes (0 keeps everything)")
}

func inspectInput(out, errOut io.Writer, in input, opt coerce.LoadOpt) error {
	d := diag.New(in.text)
	n, err := coerce.Load(in.text, d, opt)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, value.Dump(n))
	rep := newReporter(errOut, false)
	rep.warnings(in.name, d.Warnings())
	return nil
}
