package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"hearing/internal/adapter/speaker"
	"hearing/internal/domain"
	"hearing/internal/port"
)

// AnalyzeOptions tunes segmentation and statistics.
type AnalyzeOptions struct {
	FlushTrailing bool
	WordSplit     WordSplit
	Precision     int
}

// DefaultAnalyzeOptions drops the trailing turn, splits words on single
// spaces and rounds ratios to three decimals.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{WordSplit: SplitSpace, Precision: 3}
}

// AnalyzeUseCase attributes transcript paragraphs to speakers and reports
// participation statistics.
type AnalyzeUseCase struct {
	tokenizer port.Tokenizer
	matcher   *speaker.Matcher
	opts      AnalyzeOptions
	log       *slog.Logger
}

// NewAnalyzeUseCase creates a new analyze use case.
func NewAnalyzeUseCase(
	tokenizer port.Tokenizer,
	matcher *speaker.Matcher,
	opts AnalyzeOptions,
	log *slog.Logger,
) *AnalyzeUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &AnalyzeUseCase{
		tokenizer: tokenizer,
		matcher:   matcher,
		opts:      opts,
		log:       log,
	}
}

// ProgressFunc is called after each paragraph is processed.
type ProgressFunc func(done, total int)

// Analyze runs one pass over the document's paragraphs. It returns
// ErrNoSpeakers when no turn with words was completed.
func (u *AnalyzeUseCase) Analyze(ctx context.Context, doc *domain.Document, progress ProgressFunc) (*domain.Analysis, error) {
	paragraphs := doc.Paragraphs()
	log := u.log.With("title", doc.Title, "tokenizer", u.tokenizer.Name())
	log.Debug("analyzing transcript", "paragraphs", len(paragraphs))

	agg := NewAggregator(u.opts.WordSplit)
	seg := NewSegmenter(u.matcher, agg, u.opts.FlushTrailing)

	for i, p := range paragraphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens, err := u.tokenizer.Tokenize(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("tokenize paragraph %d: %w", i+1, err)
		}
		seg.Feed(tokens)
		if progress != nil {
			progress(i+1, len(paragraphs))
		}
	}

	turns := seg.Close()
	if spk, text := seg.Pending(); spk.IsKnown() || text != "" {
		log.Debug("open turn not counted", "speaker", spk.String(), "bytes", len(text))
	}

	report, err := agg.Report(u.opts.Precision)
	if err != nil {
		return nil, fmt.Errorf("analyze %d paragraphs: %w", len(paragraphs), err)
	}
	log.Info("transcript analyzed", "turns", len(turns), "speakers", len(report.Speakers), "words", report.TotalWords)

	if turns == nil {
		turns = []domain.ConversationTurn{}
	}
	return &domain.Analysis{
		Title:      doc.Title,
		Paragraphs: len(paragraphs),
		Transcript: turns,
		Report:     report,
	}, nil
}
