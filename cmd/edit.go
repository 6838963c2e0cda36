package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/repository"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

var flagEditFile string

var editCmd = &cobra.Command{
	Use:   "edit <section>",
	Short: "Apply a JSON patch to one section of the stored sheet",
	Long: `Edit stages a copy of the stored sheet, decodes the JSON patch over the chosen
section and commits it. Keys missing from the patch keep their values; other
sections are never touched.

Sections: info, abilities, skills, spells, inventory.

Examples:
  sheetpipe edit info --file patch.json
  echo '{"strength":{"score":18,"modifier":4}}' | sheetpipe edit abilities`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&flagEditFile, "file", "-", `JSON patch file ("-" for stdin)`)
}

func runEdit(cmd *cobra.Command, args []string) error {
	section, err := parseSection(args[0])
	if err != nil {
		return err
	}
	patch, err := readInput(cmd, flagEditFile, current.cfg.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("reading patch: %w", err)
	}

	stage, err := current.repo.BeginEdit(section)
	if err != nil {
		return err
	}
	if err := applyPatch(stage, patch); err != nil {
		current.repo.CancelEdit()
		return err
	}

	snap, err := current.repo.Commit(cmd.Context(), stage)
	if err != nil {
		return err
	}
	if !snap.SaveFailed {
		current.broker.Success(fmt.Sprintf("Updated %s", section.Title()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", labelStyle.Render("revision:"), snap.Revision)
	return nil
}

// applyPatch decodes patch over the staged section.
func applyPatch(stage *repository.Stage, patch []byte) error {
	var target any
	switch p := stage.Payload().(type) {
	case repository.InfoEdit:
		target = p.Info
	case repository.AbilitiesEdit:
		target = p.Abilities
	case repository.SkillsEdit:
		target = p.Skills
	case repository.SpellsEdit:
		target = p.Spellcasting
	case repository.InventoryEdit:
		target = p.Inventory
	default:
		return core.Errorf(core.KindInvalidInput, "section %q cannot be edited", stage.Section())
	}

	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return core.Wrap(core.KindInvalidInput, "invalid "+string(stage.Section())+" patch", err)
	}
	return nil
}

var sectionAliases = map[string]sheet.SectionID{
	"info":      sheet.SectionCharacterInfo,
	"character": sheet.SectionCharacterInfo,
	"spell":     sheet.SectionSpells,
	"items":     sheet.SectionInventory,
}

// parseSection accepts a section id (any case) or a short alias.
func parseSection(name string) (sheet.SectionID, error) {
	name = strings.TrimSpace(name)
	for _, id := range sheet.SectionIDs {
		if strings.EqualFold(string(id), name) {
			return id, nil
		}
	}
	if id, ok := sectionAliases[strings.ToLower(name)]; ok {
		return id, nil
	}
	return "", core.Errorf(core.KindInvalidInput, "unknown section %q", name)
}
