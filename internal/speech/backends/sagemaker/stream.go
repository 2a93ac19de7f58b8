package sagemaker

import (
	"context"
	"unicode/utf8"

	"github.com/voicerelay/voicerelay/internal/speech/engine"
)

// maxConcurrentSegments bounds per-invocation fan-out to the endpoint.
const maxConcurrentSegments = 4

// synthesizeStream drives one synthesis: it dispatches one endpoint
// call for short text, or splits long text into sentence-aligned
// segments and dispatches them concurrently. Audio is always emitted
// in original text order: the consumer waits on each segment's result
// slot by index, fetches that segment's audio, and emits its chunks
// before advancing, regardless of which call finished first.
//
// Any failure aborts the stream with a single bad-request error chunk
// wrapping the cause; chunks already emitted are not retracted. There
// is no retry and no abort path for in-flight calls.
func (p *Provider) synthesizeStream(ctx context.Context, client endpointClient, pl payload, endpoint string, wordLimit int) <-chan engine.AudioChunk {
	out := make(chan engine.AudioChunk)

	go func() {
		defer close(out)

		text := pl[fieldText]
		segments := []string{text}
		if utf8.RuneCountInString(text) > wordLimit {
			segments = splitText(text, wordLimit)
		}

		type result struct {
			resp *synthResponse
			err  error
		}

		// One slot per segment; results are consumed by index, never
		// by completion order, so no further synchronization is needed.
		slots := make([]chan result, len(segments))
		sem := make(chan struct{}, min(maxConcurrentSegments, len(segments)))

		for i, segment := range segments {
			slot := make(chan result, 1)
			slots[i] = slot
			segPayload := pl.withText(segment)
			task := func() {
				sem <- struct{}{}
				defer func() { <-sem }()
				resp, err := client.invoke(ctx, endpoint, segPayload)
				slot <- result{resp: resp, err: err}
			}
			if p.pool == nil || p.pool.Submit(ctx, task) != nil {
				go task()
			}
		}

		index := 0
		for i := range slots {
			res := <-slots[i]
			if res.err != nil {
				out <- engine.AudioChunk{Index: index, Err: badRequest(res.err)}
				return
			}

			audio, err := client.fetchAudio(ctx, res.resp)
			if err != nil {
				out <- engine.AudioChunk{Index: index, Err: badRequest(err)}
				return
			}

			lastSegment := i == len(slots)-1
			for off := 0; off < len(audio); off += engine.ChunkSize {
				end := min(off+engine.ChunkSize, len(audio))
				out <- engine.AudioChunk{
					Data:  audio[off:end],
					Index: index,
					Final: lastSegment && end == len(audio),
				}
				index++
			}
		}
	}()

	return out
}
