package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidStyleOpRange signals an op whose range falls outside its
// paragraph. Well-formed engine output never triggers it; seeing it means
// an engine bug, and the batch pipeline fails the affected file.
var ErrInvalidStyleOpRange = errors.New("style op range out of bounds")

var upperCaser = cases.Upper(language.Und)

// Apply mutates doc in place according to ops. Each affected paragraph is
// re-partitioned at every op boundary, covered segments take the union of
// their pre-existing style and the covering ops' styles, uppercase ops
// transform the covered text, and adjacent runs with identical resulting
// style are merged back so the run sequence stays minimal.
func Apply(doc *document.Document, ops []StyleOp) error {
	byPara := make(map[int][]StyleOp)
	for _, op := range ops {
		if op.Para < 0 || op.Para >= len(doc.Paragraphs) {
			return fmt.Errorf("%w: %s targets missing paragraph", ErrInvalidStyleOpRange, op)
		}
		byPara[op.Para] = append(byPara[op.Para], op)
	}

	for idx, paraOps := range byPara {
		if err := applyToParagraph(doc.Paragraphs[idx], paraOps); err != nil {
			return fmt.Errorf("paragraph %d: %w", idx, err)
		}
	}
	return nil
}

func applyToParagraph(para *document.Paragraph, ops []StyleOp) error {
	length := para.Len()
	for _, op := range ops {
		if op.Start < 0 || op.End > length || op.Start >= op.End {
			return fmt.Errorf("%w: %s in paragraph of length %d", ErrInvalidStyleOpRange, op, length)
		}
	}

	// boundaries: existing run edges plus every op edge
	boundarySet := map[int]struct{}{0: {}, length: {}}
	pos := 0
	for _, r := range para.Runs {
		pos += r.Len()
		boundarySet[pos] = struct{}{}
	}
	for _, op := range ops {
		boundarySet[op.Start] = struct{}{}
		boundarySet[op.End] = struct{}{}
	}
	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	// source runs indexed by rune offset
	type srcRun struct {
		start int
		run   document.Run
	}
	srcRuns := make([]srcRun, 0, len(para.Runs))
	pos = 0
	for _, r := range para.Runs {
		srcRuns = append(srcRuns, srcRun{start: pos, run: r})
		pos += r.Len()
	}
	runAt := func(offset int) document.Run {
		i := sort.Search(len(srcRuns), func(i int) bool { return srcRuns[i].start > offset }) - 1
		return srcRuns[i].run
	}

	runes := []rune(para.Text())
	newRuns := make([]document.Run, 0, len(boundaries)-1)
	for i := 0; i+1 < len(boundaries); i++ {
		segStart, segEnd := boundaries[i], boundaries[i+1]
		base := runAt(segStart)

		style := base.Style
		uppercase := false
		for _, op := range ops {
			if op.Start <= segStart && segEnd <= op.End {
				style = style.Merge(op.Style.Style)
				uppercase = uppercase || op.Style.Uppercase
			}
		}

		text := string(runes[segStart:segEnd])
		if uppercase {
			text = upperCaser.String(text)
		}

		newRuns = append(newRuns, document.Run{
			Text:  text,
			Style: style,
			Meta:  base.Meta,
		})
	}

	para.Runs = newRuns
	para.MergeAdjacentRuns()
	return nil
}
