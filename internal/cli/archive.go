package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/storage"
	"github.com/matzehuels/phylo/pkg/tree"
)

// archiveCommand creates the tree archive command.
func (c *CLI) archiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve named trees",
		Long: `Keep trees in the archive: a MongoDB collection when storage.mongo_uri
(or PHYLO_MONGO_URI) is set, a local directory otherwise.`,
	}

	cmd.AddCommand(c.archivePutCommand())
	cmd.AddCommand(c.archiveGetCommand())
	cmd.AddCommand(c.archiveListCommand())
	cmd.AddCommand(c.archiveRemoveCommand())

	return cmd
}

// withStore opens the archive for the duration of fn.
func (c *CLI) withStore(cmd *cobra.Command, fn func(storage.Store) error) error {
	store, err := c.newStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close(context.WithoutCancel(cmd.Context()))
	return fn(store)
}

// archivePutCommand creates the "archive put" subcommand.
func (c *CLI) archivePutCommand() *cobra.Command {
	var (
		from string
		name string
	)

	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Archive every tree in a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := inputArg(args)
			trees, err := readTrees(cmd, path, from)
			if err != nil {
				return err
			}
			if name == "" {
				if path == stdinPath {
					return errs.New(errs.ErrCodeInvalidInput, "--name is required when reading stdin")
				}
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			return c.withStore(cmd, func(store storage.Store) error {
				for i, t := range trees {
					recName := name
					if len(trees) > 1 {
						recName = fmt.Sprintf("%s-%d", name, i+1)
					}
					rec := storage.NewRecord(recName, t)
					if err := store.Put(cmd.Context(), rec); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
					c.Logger.Debug("archived tree", "id", rec.ID, "name", recName, "tips", rec.Tips)
				}
				printSuccess("Archived %d tree(s) as %q", len(trees), name)
				printNextStep("Fetch with", appName+" archive get <id>")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: newick, json (default: by file extension)")
	cmd.Flags().StringVar(&name, "name", "", "record name (default: file name)")

	return cmd
}

// archiveGetCommand creates the "archive get" subcommand.
func (c *CLI) archiveGetCommand() *cobra.Command {
	var f ioFlags

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print an archived tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store storage.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				t, err := rec.Decode()
				if err != nil {
					return err
				}
				return writeTrees(cmd, []*tree.Tree{t}, f.output, f.to)
			})
		},
	}

	cmd.Flags().StringVar(&f.to, "to", "newick", "output format: newick, json, gotree")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// archiveListCommand creates the "archive list" subcommand.
func (c *CLI) archiveListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived trees, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store storage.Store) error {
				recs, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					printInfo("Archive is empty")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTIPS\tCREATED")
				for _, r := range recs {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Tips, r.CreatedAt.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
}

// archiveRemoveCommand creates the "archive rm" subcommand.
func (c *CLI) archiveRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete archived trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store storage.Store) error {
				for _, id := range args {
					if err := store.Delete(cmd.Context(), id); err != nil {
						return err
					}
				}
				printSuccess("Deleted %d tree(s)", len(args))
				return nil
			})
		},
	}
}
