package fuzztests

import (
	"context"
	"testing"
	"time"

	"contenttag"
	"contenttag/internal/parser"
	"contenttag/internal/source"
	"contenttag/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input. Longer runs point
// at a loop in error handling.
const parseTimeout = 5 * time.Second

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.gjs", input))

		errc := make(chan error, 1)
		go func() {
			res, err := parser.ParseFile(file, parser.Options{})
			if err != nil {
				errc <- nil
				return
			}
			errc <- testkit.CheckSpanInvariants(res.Program, file)
		}()
		select {
		case err := <-errc:
			if err != nil {
				t.Fatalf("span invariants: %v", err)
			}
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang on %d bytes", len(input))
		}
	})
}

func FuzzRewrite(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		ctx := context.Background()
		for _, lint := range []bool{false, true} {
			res, err := contenttag.Rewrite(ctx, input, "fuzz.gjs", contenttag.RewriteOptions{
				PositionPreserving: lint,
				SourceMaps:         contenttag.SourceMapSeparate,
			})
			if err != nil {
				if res != nil {
					t.Fatalf("partial result alongside %v", err)
				}
				continue
			}
			if len(res.Matches) == 0 && string(res.Output) != string(input) {
				t.Fatalf("lint=%v: file without matches changed", lint)
			}
			if len(res.Replacements) > len(res.Matches) {
				t.Fatalf("ledger has %d entries for %d matches", len(res.Replacements), len(res.Matches))
			}
		}
	})
}
