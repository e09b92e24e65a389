//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"syscall/js"
	"time"

	"hearing/config"
	"hearing/internal/adapter/analyzer"
	"hearing/internal/adapter/cache"
	"hearing/internal/adapter/source"
	"hearing/internal/adapter/speaker"
	"hearing/internal/usecase"
)

var (
	cfg     *config.Config
	reports *cache.ReportCache
)

func init() {
	cfg = config.DefaultConfig()
	reports = cache.NewReportCache(16, time.Hour)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("hearingAnalyze", js.FuncOf(analyzeContent))
	js.Global().Set("hearingPatterns", js.FuncOf(listPatterns))
	js.Global().Set("hearingClear", js.FuncOf(clearCache))
	js.Global().Set("hearingStats", js.FuncOf(getStats))

	<-c
}

// analyzeOptions are the optional settings passed as JSON to hearingAnalyze.
type analyzeOptions struct {
	Format        string   `json:"format"`
	Titles        []string `json:"titles"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	FlushTrailing bool     `json:"flush_trailing"`
	WordSplit     string   `json:"word_split"`
	Transcript    bool     `json:"transcript"`
}

func analyzeContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: hearingAnalyze(filename, content, [optionsJSON])")
	}

	filename := args[0].String()
	content := args[1].String()

	opts := analyzeOptions{Titles: cfg.Titles, WordSplit: cfg.Stats.WordSplit}
	if len(args) > 2 && args[2].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[2].String()), &opts); err != nil {
			return makeError("invalid options: " + err.Error())
		}
	}

	key := cache.Key([]byte(content),
		filename,
		opts.Format,
		strings.Join(opts.Titles, "\x1f"),
		opts.Start,
		opts.End,
		strconv.FormatBool(opts.FlushTrailing),
		opts.WordSplit,
	)
	analysis, ok := reports.Get(key)
	if !ok {
		loader := source.NewLoader(
			source.NewRegistry(cfg.Source.Formats, cfg.Source.ParagraphDelimiter),
			nil,
			opts.Start,
			opts.End,
			nil,
		)
		doc, err := loader.Parse(strings.NewReader(content), filename, opts.Format)
		if err != nil {
			return makeError(err.Error())
		}

		uc := usecase.NewAnalyzeUseCase(
			analyzer.NewTokenizer(opts.Titles),
			speaker.NewMatcher(speaker.BuildPatterns(opts.Titles)),
			usecase.AnalyzeOptions{
				FlushTrailing: opts.FlushTrailing,
				WordSplit:     usecase.WordSplit(opts.WordSplit),
				Precision:     cfg.Stats.Precision,
			},
			nil,
		)
		analysis, err = uc.Analyze(context.Background(), doc, nil)
		if err != nil {
			return makeError(err.Error())
		}
		reports.Put(key, analysis)
	}

	out := *analysis
	if !opts.Transcript {
		out.Transcript = nil
	}
	result, err := json.Marshal(out)
	if err != nil {
		return makeError(err.Error())
	}
	return string(result)
}

func listPatterns(this js.Value, args []js.Value) interface{} {
	titles := cfg.Titles
	if len(args) > 0 {
		titles = make([]string, len(args))
		for i, a := range args {
			titles[i] = a.String()
		}
	}
	return makeResult(map[string]interface{}{
		"titles":   titles,
		"patterns": speaker.BuildPatterns(titles),
	})
}

func clearCache(this js.Value, args []js.Value) interface{} {
	dropped := reports.Size()
	reports.Invalidate()
	return makeResult(map[string]interface{}{
		"dropped": dropped,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"cachedReports": reports.Size(),
		"titles":        cfg.Titles,
		"formats":       source.NewRegistry(cfg.Source.Formats, "").Formats(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
