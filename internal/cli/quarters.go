package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/boligpris/internal/quarters"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quarters",
		Short: "List the selectable quarters with their indices",
		RunE:  runQuarters,
	}

	cmd.Flags().Bool("remote", false, "Compare against the quarters the SSB table publishes")

	RootCmd.AddCommand(cmd)
}

func runQuarters(cmd *cobra.Command, args []string) error {
	remote, _ := cmd.Flags().GetBool("remote")
	out := cmd.OutOrStdout()

	if !remote {
		for i, label := range quarters.All() {
			fmt.Fprintf(out, "%2d  %s\n", i, label)
		}
		return nil
	}

	meta, err := newSSBClient().TableMeta(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch table metadata: %w", err)
	}
	v, ok := meta.Variable(cfg.SSB.TimeDimension)
	if !ok {
		return fmt.Errorf("table %s has no %s variable", cfg.SSB.Table, cfg.SSB.TimeDimension)
	}

	published := make(map[string]bool, len(v.Values))
	for _, code := range v.Values {
		published[code] = true
	}
	missing := 0
	for i, label := range quarters.All() {
		mark := "ok"
		if !published[label] {
			mark = "missing"
			missing++
		}
		fmt.Fprintf(out, "%2d  %s  %s\n", i, label, mark)
	}
	fmt.Fprintf(out, "\n%d of %d quarters published (table offers %d)\n", quarters.Len()-missing, quarters.Len(), len(v.Values))
	return nil
}
