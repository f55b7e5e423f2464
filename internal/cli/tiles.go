package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/ingest"
	"github.com/matzehuels/truchet/pkg/library"
	"github.com/matzehuels/truchet/pkg/tile"
)

// shortIDLen is how many ID characters list shows and prefixes need.
const shortIDLen = 8

// tilesCommand creates the tile library management command.
func (c *CLI) tilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "Manage the tile library",
		Long: `Manage the tile library, the persistent list of tiles used by
"generate --library". The storage backend is chosen in the [library] section
of the config file.

Tiles are addressed by ID; any unique prefix of at least 8 characters works.`,
	}

	cmd.AddCommand(c.tilesAddCommand())
	cmd.AddCommand(c.tilesListCommand())
	cmd.AddCommand(c.tilesBusynessCommand())
	cmd.AddCommand(c.tilesRemoveCommand())
	cmd.AddCommand(c.tilesClearCommand())
	cmd.AddCommand(c.tilesEditCommand())

	return cmd
}

// withLibrary opens the library, runs fn and closes it.
func (c *CLI) withLibrary(ctx context.Context, fn func(library.Store) error) error {
	store, err := c.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// tilesAddCommand creates the "tiles add" subcommand.
func (c *CLI) tilesAddCommand() *cobra.Command {
	var busyness int

	cmd := &cobra.Command{
		Use:   "add <files|dirs...>",
		Short: "Add SVG tiles to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ingest.Load(args...)
			if err != nil {
				return err
			}
			reportSkipped(c, res)
			if len(res.Tiles) == 0 {
				printInfo("No tiles to add")
				return nil
			}

			if cmd.Flags().Changed("busyness") {
				if err := errors.ValidateBusyness(busyness); err != nil {
					return err
				}
				for i := range res.Tiles {
					res.Tiles[i].Busyness = busyness
				}
			}

			return c.withLibrary(cmd.Context(), func(store library.Store) error {
				added, err := store.Add(cmd.Context(), res.Tiles...)
				if err != nil {
					return err
				}
				printSuccess("Added %s to the library", plural(len(added), "tile"))
				for _, t := range added {
					printDetail("%s  %s  busyness %d", shortID(t.ID), t.FileName, t.Busyness)
				}
				printNextStep("Generate from the library", "truchet generate --library")
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&busyness, "busyness", "b", tile.DefaultBusyness, "busyness for every added tile (default: manifest or 5)")
	return cmd
}

// tilesListCommand creates the "tiles list" subcommand.
func (c *CLI) tilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tiles in the library",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(store library.Store) error {
				tiles, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(tiles) == 0 {
					printInfo("The library is empty")
					printNextStep("Add tiles", "truchet tiles add <files|dirs>")
					return nil
				}
				fmt.Fprintln(statusOut, renderTileTable(tiles))
				return nil
			})
		},
	}
}

// renderTileTable formats tiles as a bordered table.
func renderTileTable(tiles []tile.RawTile) string {
	rows := make([][]string, len(tiles))
	for i, t := range tiles {
		rows[i] = []string{shortID(t.ID), t.DisplayName(), strconv.Itoa(t.Busyness), busynessBar(t.Busyness)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Tile", "Busyness", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// tilesBusynessCommand creates the "tiles busyness" subcommand.
func (c *CLI) tilesBusynessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "busyness <id> <0-10>",
		Short: "Set a tile's busyness",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidBusyness, "busyness must be a number, got %q", args[1])
			}
			if err := errors.ValidateBusyness(b); err != nil {
				return err
			}

			return c.withLibrary(cmd.Context(), func(store library.Store) error {
				t, err := resolveTile(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if err := store.SetBusyness(cmd.Context(), t.ID, b); err != nil {
					return err
				}
				printSuccess("%s busyness %d → %d", t.FileName, t.Busyness, b)
				return nil
			})
		},
	}
}

// tilesRemoveCommand creates the "tiles rm" subcommand.
func (c *CLI) tilesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id...>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove tiles from the library",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(store library.Store) error {
				for _, id := range args {
					t, err := resolveTile(cmd.Context(), store, id)
					if err != nil {
						return err
					}
					if err := store.Delete(cmd.Context(), t.ID); err != nil {
						return err
					}
					printSuccess("Removed %s", t.FileName)
				}
				return nil
			})
		},
	}
}

// tilesClearCommand creates the "tiles clear" subcommand.
func (c *CLI) tilesClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every tile from the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(store library.Store) error {
				tiles, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				printSuccess("Cleared %s", plural(len(tiles), "tile"))
				return nil
			})
		},
	}
}

// tilesEditCommand creates the "tiles edit" subcommand.
func (c *CLI) tilesEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit tile busyness interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(store library.Store) error {
				tiles, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(tiles) == 0 {
					printInfo("The library is empty")
					return nil
				}

				final, err := tea.NewProgram(NewBusynessModel(tiles), tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return fmt.Errorf("run editor: %w", err)
				}
				m := final.(BusynessModel)
				if !m.Saved {
					printInfo("No changes saved")
					return nil
				}
				return applyBusyness(cmd.Context(), store, m.Changes())
			})
		},
	}
}

// applyBusyness writes edited busyness values back to the library.
func applyBusyness(ctx context.Context, store library.Store, changes map[string]int) error {
	for id, b := range changes {
		if err := store.SetBusyness(ctx, id, b); err != nil {
			return err
		}
	}
	printSuccess("Updated %s", plural(len(changes), "tile"))
	return nil
}

// resolveTile finds the tile whose ID equals ref or starts with it.
// Prefixes must be at least shortIDLen characters and unambiguous.
func resolveTile(ctx context.Context, store library.Store, ref string) (tile.RawTile, error) {
	tiles, err := store.List(ctx)
	if err != nil {
		return tile.RawTile{}, err
	}

	var matches []tile.RawTile
	for _, t := range tiles {
		if t.ID == ref {
			return t, nil
		}
		if len(ref) >= shortIDLen && strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return tile.RawTile{}, errors.Wrap(errors.ErrCodeTileNotFound, library.ErrNotFound, "no tile with id %q", ref)
	default:
		return tile.RawTile{}, errors.New(errors.ErrCodeInvalidInput, "id prefix %q matches %d tiles", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
