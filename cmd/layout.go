package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/repository"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Show or change section order, visibility and theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cs, err := loadedSheet(current.repo.Current())
		if err != nil {
			return err
		}
		printLayout(cmd, cs.Layout)
		return nil
	},
}

var layoutMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move the section at position from to position to (1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		to, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		snap, err := current.repo.MoveSection(cmd.Context(), from, to)
		return layoutResult(cmd, snap, err)
	},
}

// sectionToggle builds the show/hide/collapse/expand subcommands.
func sectionToggle(use, short string, apply func(cmd *cobra.Command, id sheet.SectionID) (repository.Snapshot, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <section>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSection(args[0])
			if err != nil {
				return err
			}
			snap, err := apply(cmd, id)
			return layoutResult(cmd, snap, err)
		},
	}
}

var layoutThemeCmd = &cobra.Command{
	Use:   "theme <light|dark>",
	Short: "Set the display theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := current.repo.SetTheme(cmd.Context(), sheet.Theme(args[0]))
		return layoutResult(cmd, snap, err)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(
		layoutMoveCmd,
		sectionToggle("show", "Make a section visible", func(cmd *cobra.Command, id sheet.SectionID) (repository.Snapshot, error) {
			return current.repo.SetSectionVisible(cmd.Context(), id, true)
		}),
		sectionToggle("hide", "Hide a section", func(cmd *cobra.Command, id sheet.SectionID) (repository.Snapshot, error) {
			return current.repo.SetSectionVisible(cmd.Context(), id, false)
		}),
		sectionToggle("collapse", "Collapse a section", func(cmd *cobra.Command, id sheet.SectionID) (repository.Snapshot, error) {
			return current.repo.SetSectionCollapsed(cmd.Context(), id, true)
		}),
		sectionToggle("expand", "Expand a section", func(cmd *cobra.Command, id sheet.SectionID) (repository.Snapshot, error) {
			return current.repo.SetSectionCollapsed(cmd.Context(), id, false)
		}),
		layoutThemeCmd,
	)
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, core.Errorf(core.KindInvalidInput, "position must be a number from 1, got %q", s)
	}
	return n - 1, nil
}

func layoutResult(cmd *cobra.Command, snap repository.Snapshot, err error) error {
	if err != nil {
		return err
	}
	cs, err := loadedSheet(snap)
	if err != nil {
		return err
	}
	printLayout(cmd, cs.Layout)
	return nil
}

func printLayout(cmd *cobra.Command, layout sheet.Layout) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("theme:"), layout.Theme)
	for _, s := range layout.Sections {
		flags := ""
		if !s.Visible {
			flags += " hidden"
		}
		if s.Collapsed {
			flags += " collapsed"
		}
		fmt.Fprintf(out, "%d. %s (%s)%s\n", s.Order, s.Title, s.ID, labelStyle.Render(flags))
	}
}
