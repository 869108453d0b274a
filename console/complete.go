package console

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const columnGap = 2

// complete extends the word before the cursor. A single candidate replaces
// the word; several candidates extend it to their common prefix, or are
// listed below the input when there is nothing to extend.
func (c *Console) complete() {
	c.clampCursor()
	candidates, word := c.reg.Complete(c.inputBeforeCursor())
	switch len(candidates) {
	case 0:
		return
	case 1:
		c.replaceWord(word, candidates[0]+" ")
		return
	}

	if common := commonPrefix(candidates); len(common) > len(word) && strings.HasPrefix(common, word) {
		c.replaceWord(word, common)
		return
	}
	c.listCandidates(candidates)
}

func (c *Console) replaceWord(word, with string) {
	if strings.HasPrefix(with, word) {
		c.insert(with[len(word):])
		return
	}
	for range []rune(word) {
		if !c.grid.DeleteBackward(c.inputStart) {
			break
		}
	}
	c.insert(with)
}

// listCandidates prints candidates in columns and redraws the prompt with
// the same input.
func (c *Console) listCandidates(candidates []string) {
	input := c.Input()
	c.setCursor(c.inputEnd())
	c.grid.NewLine()
	for _, line := range FormatColumns(candidates, c.grid.Width()) {
		c.grid.WriteText(line)
		c.grid.NewLine()
	}
	c.writePrompt()
	c.insert(input)
}

// FormatColumns lays items out column-major in rows no wider than width
// display cells.
func FormatColumns(items []string, width int) []string {
	if len(items) == 0 {
		return nil
	}
	colWidth := 0
	for _, it := range items {
		if w := runewidth.StringWidth(it); w > colWidth {
			colWidth = w
		}
	}
	colWidth += columnGap

	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}
	rows := (len(items) + cols - 1) / cols

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for col := 0; col < cols; col++ {
			i := col*rows + r
			if i >= len(items) {
				break
			}
			if col+1 < cols && (col+1)*rows+r < len(items) {
				b.WriteString(runewidth.FillRight(items[i], colWidth))
			} else {
				b.WriteString(items[i])
			}
		}
		lines[r] = b.String()
	}
	return lines
}

func commonPrefix(items []string) string {
	prefix := items[0]
	for _, it := range items[1:] {
		for !strings.HasPrefix(it, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}
