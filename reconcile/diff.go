package reconcile

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op marks a line in a LineDiff.
type Op byte

const (
	OpEqual  Op = ' '
	OpDelete Op = '-'
	OpInsert Op = '+'
)

// DiffLine is one line of a line-oriented diff, without its newline.
type DiffLine struct {
	Op   Op
	Text string
}

func (l DiffLine) String() string {
	return string(l.Op) + l.Text
}

// LineDiff compares before and after line by line.
func LineDiff(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out = append(out, DiffLine{Op: op, Text: line})
		}
	}
	return out
}

// Hunks keeps changed lines plus up to context unchanged lines around
// them. Runs of dropped unchanged lines are replaced by a nil entry so
// callers can print a separator.
func Hunks(lines []DiffLine, context int) []*DiffLine {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == OpEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var out []*DiffLine
	skipped := false
	for i := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped && len(out) > 0 {
			out = append(out, nil)
		}
		skipped = false
		out = append(out, &lines[i])
	}
	return out
}
