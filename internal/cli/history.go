package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved searches",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved searches, oldest first",
		RunE:  runHistoryList,
	}
	listCmd.Flags().StringP("format", "f", "text", "Output format: json, yaml or text")

	historyCmd.AddCommand(listCmd)
	RootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	recorder, store, err := openRecorder()
	if err != nil {
		return err
	}
	defer closeStore(store)

	records := recorder.List()
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		if len(records) == 0 {
			fmt.Fprintln(out, "No saved searches.")
			return nil
		}
		for i, r := range records {
			fmt.Fprintf(out, "%3d  %s\n", i+1, r)
		}
	default:
		return fmt.Errorf("unknown format %q (use json, yaml or text)", format)
	}
	return nil
}
