package main

import (
	"github.com/spf13/cobra"

	"github.com/latticevalue/jsontree/jvparse"
	"github.com/latticevalue/jsontree/jvser"
)

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format [file|-]",
		Short: "Parse a JSON document and re-emit it without insignificant whitespace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			v, parseErr := jvparse.Parse(data)
			if parseErr != nil {
				return parseErr
			}
			out, serErr := jvser.Stringify(v)
			if serErr != nil {
				return serErr
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
