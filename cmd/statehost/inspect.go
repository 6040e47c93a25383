package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"statehost/internal/bundle"
)

func newInspectCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [KEY]",
		Short: "List saved bundles, or print the slots of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				keys, err := rt.store.Keys(ctx)
				if err != nil {
					return err
				}
				if len(keys) == 0 {
					fmt.Fprintln(out, "no saved bundles")
				}
				for _, k := range keys {
					fmt.Fprintln(out, k)
				}
				return nil
			}

			b, ok, err := rt.store.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no bundle saved under %q", args[0])
			}
			printBundle(out, b)
			return nil
		},
	}
}

func printBundle(out io.Writer, b bundle.Bundle) {
	for _, k := range b.Keys() {
		data, _ := b.Get(k)
		if len(data) == 0 {
			fmt.Fprintf(out, "%s: <empty>\n", k)
			continue
		}
		fmt.Fprintf(out, "%s:\n%s\n", k, indentSlot(data))
	}
}

// indentSlot pretty-prints JSON slots and indents anything else (yaml) as is.
func indentSlot(data []byte) string {
	var buf bytes.Buffer
	if json.Valid(data) {
		if err := json.Indent(&buf, data, "  ", "  "); err == nil {
			return "  " + buf.String()
		}
	}
	for _, line := range bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n")) {
		buf.WriteString("  ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
