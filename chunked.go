package lingo

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vireolabs/lingo/textproc"
)

// DefaultChunkWorkers bounds concurrent chunk translations in
// TranslateChunks.
const DefaultChunkWorkers = 4

// TranslateChunks translates a long text by segmenting it at sentence
// boundaries into chunks of at most chunkSize characters and translating the
// chunks concurrently, preserving order in the joined output. Each chunk goes
// through the normal pipeline, so chunks are individually cached and must
// individually pass validation; a lone sentence longer than the pipeline's
// maximum still fails with a ValidationError.
//
// The result reports FromCache only when every chunk was served from cache.
func (p *Pipeline) TranslateChunks(ctx context.Context, req TranslationRequest, chunkSize, workers int) (*TranslationResult, error) {
	start := time.Now()

	if chunkSize <= 0 {
		chunkSize = p.maxLen
	}
	if workers <= 0 {
		workers = DefaultChunkWorkers
	}

	pair := req.Pair()
	if !p.catalog.Supported(pair) {
		return nil, &UnsupportedPairError{Pair: pair, Supported: p.catalog.Pairs()}
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Field: "text", Message: "must not be empty"}
	}

	chunks := textproc.Segment(req.Text, chunkSize)
	translated := make([]string, len(chunks))
	var cachedChunks atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			res, err := p.Translate(gctx, TranslationRequest{
				Text:   chunk,
				Source: req.Source,
				Target: req.Target,
			})
			if err != nil {
				return err
			}
			translated[i] = res.TranslatedText
			if res.FromCache {
				cachedChunks.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &TranslationResult{
		TranslatedText: strings.Join(translated, " "),
		FromCache:      cachedChunks.Load() == int64(len(chunks)),
		Latency:        time.Since(start),
	}
	if !result.FromCache {
		result.EngineID, _ = p.catalog.ModelID(pair)
	}
	return result, nil
}
