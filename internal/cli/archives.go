package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"chatlinks/internal/archive"
	"chatlinks/internal/storage"
)

func (a *app) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Store an archive file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			if err := storage.ValidateName(name); err != nil {
				return err
			}

			messages, err := archive.LoadFile(path)
			if err != nil {
				return fmt.Errorf("problem parsing file: %w", err)
			}

			return a.withRepository(func(repo storage.Repository) error {
				if err := repo.SaveArchive(cmd.Context(), name, messages); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d messages into archive %q\n", len(messages), name)
				return nil
			})
		},
	}
}

func (a *app) newArchivesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "archives",
		Aliases: []string{"ls"},
		Short:   "List stored archives",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRepository(func(repo storage.Repository) error {
				archives, err := repo.ListArchives(cmd.Context())
				if err != nil {
					return err
				}
				if len(archives) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No archives stored")
					return nil
				}

				rows := make([][]string, 0, len(archives))
				for _, info := range archives {
					rows = append(rows, []string{
						info.Name,
						strconv.Itoa(info.MessageCount),
						info.ImportedAt.Local().Format(time.DateTime),
					})
				}

				table := tablewriter.NewTable(cmd.OutOrStdout(),
					tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
				)
				table.Header([]string{"Name", "Messages", "Imported"})
				if err := table.Bulk(rows); err != nil {
					return err
				}
				return table.Render()
			})
		},
	}
}

func (a *app) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a stored archive",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo storage.Repository) error {
				if err := repo.DeleteArchive(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed archive %q\n", args[0])
				return nil
			})
		},
	}
}

// withRepository opens the archive store for the duration of fn.
func (a *app) withRepository(fn func(storage.Repository) error) error {
	repo, err := storage.NewBadgerRepository(a.cfg.BadgerDBPath, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			a.log.WithError(err).Error("Error closing archive store")
		}
	}()
	return fn(repo)
}
