package caption

// LayoutConfig carries the canvas geometry for one layout pass. It is
// passed explicitly so the engine stays pure; nothing in this package holds
// display state.
type LayoutConfig struct {
	CanvasWidth  int // canvas width in pixels
	CanvasHeight int // canvas height in pixels
	ColumnWidth  int // horizontal distance between column left edges
	CharSpacing  int // vertical gap between glyph cells
	GlyphHeight  int // nominal glyph height (font size)
	Margin       int // outer margin on all four sides
}

// DefaultLayout returns the geometry of the original installation canvas.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		CanvasWidth:  2560,
		CanvasHeight: 1440,
		ColumnWidth:  25,
		CharSpacing:  2,
		GlyphHeight:  24,
		Margin:       20,
	}
}

// CellHeight returns the vertical distance between glyph tops in a column.
func (c LayoutConfig) CellHeight() int {
	return c.GlyphHeight + c.CharSpacing
}

// RowsPerColumn returns how many glyph cells fit in one column, or 0 when
// the geometry is degenerate.
func (c LayoutConfig) RowsPerColumn() int {
	h := c.CanvasHeight - 2*c.Margin
	cell := c.CellHeight()
	if h <= 0 || cell <= 0 {
		return 0
	}
	return h / cell
}

// Slots returns how many columns fit across the canvas, or 0 when the
// geometry is degenerate.
func (c LayoutConfig) Slots() int {
	w := c.CanvasWidth - 2*c.Margin
	if w <= 0 || c.ColumnWidth <= 0 {
		return 0
	}
	return w / c.ColumnWidth
}

// RowY returns the top y-coordinate of the given glyph cell row.
func (c LayoutConfig) RowY(row int) int {
	return c.Margin + row*c.CellHeight()
}

// Column is the laid-out vertical rendering of one caption segment.
type Column struct {
	// Seq is the sequence number of the caption this column renders.
	Seq uint64

	// Part is the wrap segment index within the caption; part 0 holds the
	// start of the text and sits rightmost among the caption's columns.
	Part int

	// X is the column's left edge in canvas pixels.
	X int

	// Chars are the glyphs stacked top to bottom.
	Chars []rune
}

// Layout assigns visible columns for the given captions, oldest first.
//
// The newest caption's first column takes the rightmost slot; continuation
// columns of a wrapped caption extend leftward, so each caption reads right
// to left, top to bottom. Older captions continue further left, and columns
// that would cross the left margin are dropped whole. The returned slice is
// ordered left to right. Layout is deterministic and does not mutate its
// inputs; degenerate geometry yields an empty layout.
func Layout(caps []Caption, cfg LayoutConfig) []Column {
	rows := cfg.RowsPerColumn()
	slots := cfg.Slots()
	if rows <= 0 || slots <= 0 || len(caps) == 0 {
		return nil
	}

	cols := make([]Column, 0, slots)
	slot := 0 // slots count from the right edge
	for i := len(caps) - 1; i >= 0 && slot < slots; i-- {
		parts := splitColumns(caps[i].Text, rows)
		for part := 0; part < len(parts) && slot < slots; part++ {
			cols = append(cols, Column{
				Seq:   caps[i].Seq,
				Part:  part,
				X:     cfg.Margin + (slots-1-slot)*cfg.ColumnWidth,
				Chars: parts[part],
			})
			slot++
		}
	}

	// Callers draw left to right; flip into ascending x order.
	for l, r := 0, len(cols)-1; l < r; l, r = l+1, r-1 {
		cols[l], cols[r] = cols[r], cols[l]
	}
	return cols
}

// splitColumns breaks display text into column-sized rune runs. An empty
// caption still occupies one empty column.
func splitColumns(text string, rows int) [][]rune {
	runes := []rune(text)
	if len(runes) == 0 {
		return [][]rune{nil}
	}

	var parts [][]rune
	for start := 0; start < len(runes); start += rows {
		end := start + rows
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, runes[start:end])
	}
	return parts
}
