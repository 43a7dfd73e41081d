package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"chatlinks/internal/archive"
	"chatlinks/internal/criteria"
	"chatlinks/internal/domain"
	"chatlinks/internal/export"
	"chatlinks/internal/search"
)

type searchOptions struct {
	site   string
	sender string
	year   int
	month  int
	day    int
	output string
}

func (a *app) newSearchCommand() *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search FILE [SITE]",
		Short: "List the links of an archive file",
		Long: `Search prints the links found in an archive file as JSON.

A message contributes its shared link when it has one, otherwise the first
http(s) URL of its text. The date filter only applies when --year is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.site, "site", "", "keep links containing this text")
	cmd.Flags().StringVar(&opts.sender, "sender", "", "keep messages whose sender contains this text")
	cmd.Flags().IntVar(&opts.year, "year", 0, "keep messages sent this year (UTC)")
	cmd.Flags().IntVar(&opts.month, "month", 0, "keep messages sent this month, 1-12 (needs --year)")
	cmd.Flags().IntVar(&opts.day, "day", 0, "keep messages sent this day of month, 1-31 (needs --year)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result to this file instead of stdout")
	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, args []string, opts *searchOptions) error {
	site := opts.site
	if len(args) == 2 {
		if cmd.Flags().Changed("site") && site != args[1] {
			return errors.New("site given both as argument and --site")
		}
		site = args[1]
	}

	var date domain.DateFilter
	if cmd.Flags().Changed("year") {
		date.Year = &opts.year
	}
	if cmd.Flags().Changed("month") {
		date.Month = &opts.month
	}
	if cmd.Flags().Changed("day") {
		date.Day = &opts.day
	}
	c, err := criteria.New(site, opts.sender, date)
	if err != nil {
		return err
	}
	if date.Year == nil && !date.IsZero() {
		a.log.Warn("--month and --day are ignored without --year")
	}

	messages, err := archive.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("problem parsing file: %w", err)
	}

	links := search.Links(messages, c)
	a.log.WithField("link_count", len(links)).Debug("Search completed")

	if opts.output != "" {
		return export.WriteFile(opts.output, links)
	}
	return export.Write(cmd.OutOrStdout(), links)
}
