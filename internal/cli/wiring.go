package cli

import (
	"log/slog"

	"hearing/config"
	"hearing/internal/adapter/analyzer"
	"hearing/internal/adapter/nlp"
	"hearing/internal/adapter/source"
	"hearing/internal/port"
	"hearing/internal/usecase"
)

// newTokenizer returns the configured tokenizer. The built-in tokenizer
// needs the titles to keep them intact and to tag the names after them.
func newTokenizer(c *config.Config, titles []string) port.Tokenizer {
	if c.Tokenizer.Provider == "remote" {
		return nlp.NewClient(c.Tokenizer.URL, c.Tokenizer.Timeout)
	}
	return analyzer.NewTokenizer(titles)
}

func newRegistry(c *config.Config) *source.Registry {
	return source.NewRegistry(c.Source.Formats, c.Source.ParagraphDelimiter)
}

func newLoader(c *config.Config, log *slog.Logger) *source.Loader {
	return source.NewLoader(
		newRegistry(c),
		source.NewFetcher(c.Source.FetchTimeout),
		c.Source.StartMarker,
		c.Source.EndMarker,
		log,
	)
}

func analyzeOptions(c *config.Config) usecase.AnalyzeOptions {
	return usecase.AnalyzeOptions{
		FlushTrailing: c.Segment.FlushTrailing,
		WordSplit:     usecase.WordSplit(c.Stats.WordSplit),
		Precision:     c.Stats.Precision,
	}
}

func warnNoTitles(log *slog.Logger, titles []string) {
	if len(titles) == 0 {
		log.Warn("no speaker titles configured, no speaker will be recognized")
	}
}
