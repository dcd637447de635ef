package processor

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/pidgix/internal/anki"
	"codeberg.org/snonux/pidgix/internal/archive"
	"codeberg.org/snonux/pidgix/internal/cli"
	"codeberg.org/snonux/pidgix/internal/models"
	"codeberg.org/snonux/pidgix/internal/translation"
)

// HistoryList prints past translations, newest first
func (p *Processor) HistoryList(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	store, err := p.getStore()
	if err != nil {
		return err
	}
	results, err := store.LoadAll(ctx)
	if err != nil {
		return err
	}

	if p.flags.JSON {
		data, err := sonic.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to encode history: %w", err)
		}
		fmt.Fprintln(p.out, string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Fprintln(p.out, "No translations yet.")
		return nil
	}

	for _, r := range results {
		direction := r.EffectiveDirection()
		fmt.Fprintf(p.out, "%s  %s  [%s] %s → %s\n", r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Tone, direction.SourceLanguage(), direction.TargetLanguage())
		fmt.Fprintf(p.out, "  %s\n  %s\n", r.Original, r.Translated)
	}
	return nil
}

// HistoryShow prints one past translation by ID. --speak replays it and
// --copy puts it on the clipboard.
func (p *Processor) HistoryShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	store, err := p.getStore()
	if err != nil {
		return err
	}
	result, err := store.Get(ctx, strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	if !p.flags.JSON {
		fmt.Fprintf(p.out, "%s  %s\n  %s\n", result.ID, result.Timestamp.Format("2006-01-02 15:04"), result.Original)
	}
	return p.deliver(ctx, result)
}

// HistoryClear removes every history entry
func (p *Processor) HistoryClear(cmd *cobra.Command, args []string) error {
	store, err := p.getStore()
	if err != nil {
		return err
	}
	if err := store.Clear(commandContext(cmd)); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "History cleared.")
	return nil
}

// HistoryExport writes the history as an Anki import CSV
func (p *Processor) HistoryExport(cmd *cobra.Command, args []string) error {
	store, err := p.getStore()
	if err != nil {
		return err
	}
	results, err := store.LoadAll(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no history to export")
	}

	audioDir := p.flags.AudioDir
	if audioDir == "" {
		audioDir = p.outputDir()
	}

	fmt.Fprintf(p.out, "\nGenerating Anki import file...\n")
	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     p.flags.AnkiOutput,
		IncludeHeaders: true,
	})
	gen.AddResults(results, audioDir)
	if err := gen.GenerateCSV(); err != nil {
		return fmt.Errorf("failed to generate Anki file: %w", err)
	}

	total, withAudio := gen.Stats()
	fmt.Fprintf(p.out, "Anki CSV created: %s (%d cards, %d with audio)\n", p.flags.AnkiOutput, total, withAudio)
	return nil
}

// HistoryArchive moves the history database aside so the next run starts
// with an empty history
func (p *Processor) HistoryArchive(cmd *cobra.Command, args []string) error {
	if err := p.Close(); err != nil {
		return err
	}

	archived, err := archive.ArchiveHistory(p.historyPath())
	if err != nil {
		return fmt.Errorf("failed to archive history: %w", err)
	}

	fmt.Fprintf(p.out, "History archived to %s\n", archived)
	return nil
}

// Tone prints the persisted tone, or sets it when given an argument
func (p *Processor) Tone(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	store, err := p.getStore()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		tone, err := store.Tone(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "%s (%s)\n", tone, tone.Label())
		return nil
	}

	tone, err := translation.ParseTone(args[0])
	if err != nil {
		return err
	}
	if err := store.SetTone(ctx, tone); err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Tone set to %s (%s)\n", tone, tone.Label())
	return nil
}

// Models lists the available Gemini models next to the configured tiers
func (p *Processor) Models(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	lister, err := models.NewLister(ctx, cli.GetGeminiKey(), p.out)
	if err != nil {
		return err
	}
	return lister.ListAvailableModels(ctx, cli.GetModels())
}
