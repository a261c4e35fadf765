package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minthub/mintassist/internal/catalog"
	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/validate"
	"github.com/minthub/mintassist/internal/worker"
)

var (
	listCategory  string
	hotCount      int
	checkCategory string
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the store's file catalog",
	Long: `Browse the files offered by the store.

Example:
  mintassist catalog search photoshop
  mintassist catalog list --category game
  mintassist catalog hot -n 5
  mintassist catalog download FILE003`,
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search files by name, description or category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(c *catalog.Catalog, out io.Writer) error {
			query := strings.Join(args, " ")
			files := c.Search(query)
			if len(files) == 0 {
				fmt.Fprintf(out, "Không tìm thấy kết quả cho %q\n", query)
				return nil
			}
			return printFiles(out, files)
		})
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List files, optionally of one category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(c *catalog.Catalog, out io.Writer) error {
			if err := printFiles(out, c.ByCategory(listCategory)); err != nil {
				return err
			}
			stats := c.Stats(listCategory)
			fmt.Fprintf(out, "\n%d files, %d downloads, %d views\n", stats.Files, stats.Downloads, stats.Views)
			return nil
		})
	},
}

var catalogHotCmd = &cobra.Command{
	Use:   "hot",
	Short: "Show the most viewed files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(c *catalog.Catalog, out io.Writer) error {
			return printFiles(out, c.Hot(hotCount))
		})
	},
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show categories with their file counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(c *catalog.Catalog, out io.Writer) error {
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tFILES")
			for _, cc := range c.Categories() {
				fmt.Fprintf(tw, "%s\t%d\n", cc.Category, cc.Count)
			}
			return tw.Flush()
		})
	},
}

var catalogDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Record a download and print the file link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(c *catalog.Catalog, out io.Writer) error {
			record, err := c.RecordDownload(args[0])
			if err != nil {
				return err
			}
			f, err := c.Get(record.FileID)
			if err != nil {
				return err
			}
			printDownload(out, f)
			return nil
		})
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that download links still resolve",
	Long: `Check sends a HEAD request (GET when HEAD is refused) to the download
link of every file, optionally of one category, and reports dead links.

Example:
  mintassist catalog check
  mintassist catalog check --category game`,
	Args: cobra.NoArgs,
	RunE: runCatalogCheck,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogSearchCmd, catalogListCmd, catalogHotCmd, catalogCategoriesCmd, catalogDownloadCmd, catalogCheckCmd)

	catalogListCmd.Flags().StringVarP(&listCategory, "category", "c", catalog.AllCategories, "category filter (substring, \"all\" for everything)")
	catalogCheckCmd.Flags().StringVarP(&checkCategory, "category", "c", catalog.AllCategories, "category filter")
	catalogHotCmd.Flags().IntVarP(&hotCount, "count", "n", catalog.DefaultHotCount, "number of files")
}

// withCatalog loads the pipeline and runs fn against its catalog
func withCatalog(cmd *cobra.Command, fn func(*catalog.Catalog, io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, _, logger, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return fn(p.Catalog(), cmd.OutOrStdout())
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, cfg, logger, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	checker := validate.NewLinkChecker(cfg.HTTP, cfg.Concurrency.Workers,
		worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))
	results := checker.Check(ctx, p.Catalog().ByCategory(checkCategory))

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tLINK\tNOTE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.FileID, linkState(r), r.URL, linkNote(r))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	dead := validate.Dead(results)
	fmt.Fprintf(out, "\n%d links checked, %d dead\n", len(results), len(dead))
	return nil
}

func linkState(r model.LinkStatus) string {
	switch {
	case r.Accessible:
		return "ok"
	case r.Dead:
		return "dead"
	default:
		return "error"
	}
}

func linkNote(r model.LinkStatus) string {
	switch {
	case r.RedirectURL != "":
		return "→ " + r.RedirectURL
	case r.Error != "":
		return r.Error
	case r.StatusCode != 0 && !r.Accessible:
		return fmt.Sprintf("HTTP %d", r.StatusCode)
	default:
		return ""
	}
}

func printFiles(out io.Writer, files []model.FileRecord) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSIZE\tDOWNLOADS\tVIEWS")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", f.ID, f.Name, f.Category, f.Size, f.Downloads, f.ViewCount)
	}
	return tw.Flush()
}

func printDownload(out io.Writer, f model.FileRecord) {
	fmt.Fprintf(out, "✓ %s (%s)\n  %s\n  %d lượt tải\n", f.Name, f.Size, f.Link, f.Downloads)
}

func printHistory(out io.Writer, history []model.DownloadRecord) {
	if len(history) == 0 {
		fmt.Fprintln(out, "Chưa có lượt tải nào")
		fmt.Fprintln(out)
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tFILE\tNAME\tSIZE")
	for _, d := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.DownloadedAt.Format("2006-01-02 15:04"), d.FileID, d.FileName, d.Size)
	}
	_ = tw.Flush()
	fmt.Fprintln(out)
}
