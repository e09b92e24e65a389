package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"hearing/internal/adapter/fs"
	"hearing/internal/adapter/render"
	"hearing/internal/adapter/source"
	"hearing/internal/adapter/speaker"
	"hearing/internal/domain"
	"hearing/internal/usecase"
)

var (
	analyzePrintTranscript bool
	analyzeJSON            bool
	analyzeTitles          []string
	analyzeStart           string
	analyzeEnd             string
	analyzeFlushTrailing   bool
	analyzeWordSplit       string
	analyzeFormat          string
	analyzeQuiet           bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path|url|dir>",
	Short: "Attribute a transcript to speakers and report participation",
	Long: `Split a transcript into speaker turns and report, per speaker, the share of
all words spoken and the number of questions asked.

Paragraphs that do not introduce a speaker are attributed to the current
speaker. The last turn is left out of the report unless --flush-trailing is set.

Given a directory, every transcript matching the configured format patterns
is analyzed. Transcripts that fail are reported and skipped.

Examples:
  hearing analyze CHRG-116shrg39487.htm --print-transcript
  hearing analyze https://www.govinfo.gov/content/pkg/CHRG-116shrg39487/html/CHRG-116shrg39487.htm \
    --start "STATEMENT OF DAVID A. MARCUS, HEAD OF CALIBRA, FACEBOOK" \
    --end "PREPARED STATEMENT OF CHAIRMAN MIKE CRAPO"
  hearing analyze hearing.txt -t Senator -t "Mr." --json
  hearing analyze ./transcripts --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzePrintTranscript, "print-transcript", false, "print every speaker turn before the report")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON")
	analyzeCmd.Flags().StringArrayVarP(&analyzeTitles, "title", "t", nil, "speaker title, repeatable (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "keep text after this marker (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "drop text from this marker on (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeFlushTrailing, "flush-trailing", false, "count the last open turn")
	analyzeCmd.Flags().StringVar(&analyzeWordSplit, "word-split", "", "word counting: space or fields (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "input format: html, text, markdown, pdf, docx (default detected)")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "disable the progress bar")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()
	cmd.SilenceUsage = true

	if cmd.Flags().Changed("title") {
		cfg.Titles = analyzeTitles
	}
	if cmd.Flags().Changed("start") {
		cfg.Source.StartMarker = analyzeStart
	}
	if cmd.Flags().Changed("end") {
		cfg.Source.EndMarker = analyzeEnd
	}
	if cmd.Flags().Changed("flush-trailing") {
		cfg.Segment.FlushTrailing = analyzeFlushTrailing
	}
	if cmd.Flags().Changed("word-split") {
		cfg.Stats.WordSplit = analyzeWordSplit
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	warnNoTitles(log, cfg.Titles)

	loader := newLoader(cfg, log)
	matcher := speaker.NewMatcher(speaker.BuildPatterns(cfg.Titles))
	uc := usecase.NewAnalyzeUseCase(newTokenizer(cfg, cfg.Titles), matcher, analyzeOptions(cfg), log)

	location := args[0]
	if !source.IsURL(location) {
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			walker := fs.NewWalker(newRegistry(cfg).Patterns(), cfg.Source.Excludes)
			return runBatch(cmd, walker, loader, uc, location)
		}
	}

	doc, err := loader.Load(cmd.Context(), location, analyzeFormat)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}

	var progress usecase.ProgressFunc
	if !analyzeQuiet {
		progress = newProgress(cmd.ErrOrStderr(), "Analyzing")
	}

	analysis, err := uc.Analyze(cmd.Context(), doc, progress)
	if err != nil {
		if errors.Is(err, usecase.ErrNoSpeakers) {
			return fmt.Errorf("no speakers detected in %s: check the titles and section markers", location)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	analysis.Source = location

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return render.JSON(out, analysis, analyzePrintTranscript)
	}

	p := render.NewPrinter(out)
	if err := p.Title(analysis.Title); err != nil {
		return err
	}
	if analyzePrintTranscript {
		if err := p.Transcript(analysis.Transcript); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return p.Report(analysis.Report, cfg.Stats.Precision)
}

// runBatch analyzes every transcript found under dir.
func runBatch(cmd *cobra.Command, walker *fs.Walker, loader *source.Loader, uc *usecase.AnalyzeUseCase, dir string) error {
	ctx := cmd.Context()
	log := GetLogger()
	precision := GetConfig().Stats.Precision

	files, err := walker.Walk(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no transcripts found in %s", dir)
	}
	log.Debug("found transcripts", "dir", dir, "files", len(files))

	var progress usecase.ProgressFunc
	if !analyzeQuiet {
		progress = newProgress(cmd.ErrOrStderr(), "Analyzing")
	}

	analyses := make([]*domain.Analysis, 0, len(files))
	skipped := 0
	for i, f := range files {
		analysis, err := analyzeFile(ctx, loader, uc, f.Path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("skipping transcript", "file", f.RelPath, "error", err)
			skipped++
		} else {
			analysis.Source = f.RelPath
			analyses = append(analyses, analysis)
		}
		if progress != nil {
			progress(i+1, len(files))
		}
	}

	if len(analyses) == 0 {
		return fmt.Errorf("no transcript in %s could be analyzed (%d skipped)", dir, skipped)
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return render.JSONList(out, analyses, analyzePrintTranscript)
	}

	p := render.NewPrinter(out)
	for _, a := range analyses {
		heading := a.Source
		if a.Title != "" && a.Title != heading {
			heading += " (" + a.Title + ")"
		}
		if err := p.Title(heading); err != nil {
			return err
		}
		if analyzePrintTranscript {
			if err := p.Transcript(a.Transcript); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		if err := p.Report(a.Report, precision); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Analyzed %d transcripts (%d skipped)\n", len(analyses), skipped)
	return nil
}

func analyzeFile(ctx context.Context, loader *source.Loader, uc *usecase.AnalyzeUseCase, path string) (*domain.Analysis, error) {
	doc, err := loader.Load(ctx, path, analyzeFormat)
	if err != nil {
		return nil, err
	}
	return uc.Analyze(ctx, doc, nil)
}

// newProgress returns a callback that draws a progress bar on w once the
// total is known.
func newProgress(w io.Writer, description string) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var once sync.Once
	return func(done, total int) {
		once.Do(func() {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		})
		bar.Set(done)
	}
}
