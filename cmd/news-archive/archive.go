// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-archive/internal/archive"
	"github.com/pdiddy/news-archive/internal/pdftext"
	"github.com/pdiddy/news-archive/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [pdfs...]",
	Short: "Convert newspaper PDFs into article archives",
	Long: `Archive extracts the text of each page, splits it into candidate articles
at uppercase headlines, drops page furniture, and writes the survivors as
numbered records to <output-dir>/<name>.txt.

With a single PDF the archive is always written (to --output if given) and
the article total is printed. With several PDFs, or --batch over
--input-dir, existing archives are skipped unless --force is set.

The layout variant suits plain PDF text; the structured variant suits
markitdown output and also drops IN BRIEF roundups.`,
	RunE: runArchive,
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg, err := archiveConfig()
	if err != nil {
		return err
	}
	batch, _ := cmd.Flags().GetBool("batch")
	output, _ := cmd.Flags().GetString("output")

	if batch {
		paths, err := archive.FindPDFs(cfg.InputDir)
		if err != nil {
			return err
		}
		args = append(args, paths...)
	}
	if len(args) == 0 {
		return fmt.Errorf("no PDFs given: pass file paths or use --batch")
	}
	if output != "" && len(args) > 1 {
		return fmt.Errorf("--output needs exactly one PDF, got %d", len(args))
	}

	opener, err := pdftext.ForBackend(cfg.Backend)
	if err != nil {
		return err
	}
	p, err := archive.New(opener, cfg, log.With("variant", cfg.Variant, "backend", cfg.Backend))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if len(args) == 1 && !batch {
		outPath := output
		if outPath == "" {
			outPath = archive.OutputPath(cfg.OutputDir, args[0])
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		sum, err := p.Archive(ctx, args[0], outPath)
		if err != nil {
			return err
		}
		fmt.Println(sum)
		return nil
	}

	result := p.ArchiveBatch(ctx, args, os.Stdout)
	if err := ctx.Err(); err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed archiving", result.Failed)
	}
	return nil
}

// archiveConfig assembles the archive settings from flags, environment and
// the config file, in that order of precedence.
func archiveConfig() (types.ArchiveConfig, error) {
	cfg := types.ArchiveConfig{
		Variant:   types.Variant(viper.GetString("variant")),
		Backend:   types.Backend(viper.GetString("backend")),
		Style:     types.RecordStyle(viper.GetString("style")),
		InputDir:  viper.GetString("input_dir"),
		OutputDir: viper.GetString("output_dir"),
		Force:     viper.GetBool("force"),
	}
	if err := viper.UnmarshalKey("noise", &cfg.Noise); err != nil {
		return cfg, fmt.Errorf("reading noise settings: %w", err)
	}

	switch cfg.Variant {
	case types.VariantLayout, types.VariantStructured:
	default:
		return cfg, fmt.Errorf("unsupported variant %q: use layout or structured", cfg.Variant)
	}
	switch cfg.Style {
	case "", types.StyleFull, types.StyleReduced:
	default:
		return cfg, fmt.Errorf("unsupported style %q: use full or reduced", cfg.Style)
	}
	return cfg, nil
}

func init() {
	f := archiveCmd.Flags()
	f.String("variant", string(types.VariantLayout), "segmentation rules: layout or structured")
	f.String("backend", string(types.BackendPDF), "text extractor: pdf, markitdown, or text")
	f.String("style", "", "article header style: full or reduced (default depends on variant)")
	f.String("input-dir", "newspapers/raw", "directory scanned for PDFs with --batch")
	f.String("output-dir", "archive", "directory receiving <name>.txt archives")
	f.Bool("force", false, "rewrite archives that already exist")
	f.Bool("batch", false, "archive every PDF in --input-dir")
	f.String("output", "", "archive path for a single PDF (overrides --output-dir)")

	for key, flag := range map[string]string{
		"variant":    "variant",
		"backend":    "backend",
		"style":      "style",
		"input_dir":  "input-dir",
		"output_dir": "output-dir",
		"force":      "force",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(archiveCmd)
}
