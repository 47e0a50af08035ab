package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/boligpris/internal/chart"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/quarters"
	"github.com/rewired-gh/boligpris/internal/query"
	"github.com/rewired-gh/boligpris/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one search and print the series",
		Long: `Run one search against SSB and print one line per quarter, followed by
the shareable address of the same search on the web form.

Quarters may be given as labels (2023K1) or indices (0-59).`,
		RunE: runQuery,
	}

	cmd.Flags().String("from", "", "First quarter (default: 2023K1)")
	cmd.Flags().String("to", "", "Last quarter (default: 2023K4)")
	cmd.Flags().StringP("type", "t", models.DefaultCategoryCode, "Housing type code or label")
	cmd.Flags().StringP("out", "o", "", "Write the chart to this file (.png or .svg)")
	cmd.Flags().Bool("save", false, "Append the search to history")

	RootCmd.AddCommand(cmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	sel, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	save, _ := cmd.Flags().GetBool("save")

	recorder, store, err := openRecorder()
	if err != nil {
		return err
	}
	defer closeStore(store)

	nav, err := query.NewURLNavigator(cfg.Server.PublicURL)
	if err != nil {
		return fmt.Errorf("server.public_url: %w", err)
	}
	sess := session.New(query.NewBuilder(queryOptions(), nav), newSSBClient(), recorder)

	sub, err := sess.Submit(cmd.Context(), sel)
	if err != nil {
		return err
	}
	if err := sub.Wait(cmd.Context()); err != nil {
		_ = sess.Decline(sub.Prompt.ID)
		return fmt.Errorf("query failed: %w", err)
	}

	result := sess.Result()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", "QUARTER", strings.ToUpper(sub.Query.Category.Label))
	for i := 0; i < result.Points(); i++ {
		if result.Missing(i) {
			fmt.Fprintf(w, "%s\t%s\n", result.Categories[i], chart.FormatValue(result.Values[i]))
			continue
		}
		fmt.Fprintf(w, "%s\t%s %s\n", result.Categories[i], chart.FormatValue(result.Values[i]), cfg.Chart.SeriesLabel)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", nav.URL())

	if out != "" {
		if err := writeChart(out, sub.Query.Category, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", out)
	}

	if save {
		if err := sess.Confirm(sub.Prompt.ID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved to history.")
	} else {
		_ = sess.Decline(sub.Prompt.ID)
	}
	return nil
}

func selectionFromFlags(cmd *cobra.Command) (models.Selection, error) {
	sel := models.DefaultSelection()

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	typ, _ := cmd.Flags().GetString("type")

	var err error
	if from != "" {
		if sel.Lo, err = quarters.Parse(from); err != nil {
			return sel, err
		}
	}
	if to != "" {
		if sel.Hi, err = quarters.Parse(to); err != nil {
			return sel, err
		}
	}
	if sel.Lo > sel.Hi {
		sel.Lo, sel.Hi = sel.Hi, sel.Lo
	}

	category, err := models.ParseCategory(typ)
	if err != nil {
		return sel, err
	}
	sel.Type = category.Code
	return sel, nil
}

func writeChart(path string, category models.Category, result models.SeriesResult) error {
	opts := chartOptions()
	opts.Title = category.Label
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		opts.Format = chart.FormatSVG
	case ".png":
		opts.Format = chart.FormatPNG
	}

	img, err := chart.RenderBar(result, opts)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart directory: %w", err)
		}
	}
	return os.WriteFile(path, img, 0o644)
}
