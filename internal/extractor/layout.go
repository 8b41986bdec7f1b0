package extractor

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// LayoutOptions tunes line grouping and table inference. Distances are in
// PDF points unless noted.
type LayoutOptions struct {
	// RowTolerance is the Y distance within which glyphs share a line.
	RowTolerance float64
	// WordTolerance is the largest gap between glyphs of the same word.
	WordTolerance float64
	// ColumnGap is the smallest gap, in character widths, that separates
	// two table cells on a line.
	ColumnGap float64
	// LineGapFactor ends a table when the vertical gap to the next line
	// exceeds this multiple of the page's typical line spacing.
	LineGapFactor float64
	// MinTableRows is the smallest table reported, header included.
	MinTableRows int
}

// DefaultLayoutOptions returns settings that suit typical card statements.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		RowTolerance:  3.0,
		WordTolerance: 2.0,
		ColumnGap:     2.0,
		LineGapFactor: 2.5,
		MinTableRows:  2,
	}
}

// textLine is a set of glyphs sharing a baseline, sorted left to right.
type textLine struct {
	y      float64
	glyphs []pdf.Text
}

// span is a run of text with its horizontal extent: a word or a cell.
type span struct {
	x0, x1 float64
	text   string
}

func (s span) center() float64 { return (s.x0 + s.x1) / 2 }

// glyphPage implements Page over positioned glyphs.
type glyphPage struct {
	lines     []textLine
	left      float64
	charWidth float64
	lineGap   float64
	opts      LayoutOptions
}

func newGlyphPage(texts []pdf.Text, opts LayoutOptions) *glyphPage {
	p := &glyphPage{opts: opts, charWidth: 5}
	if len(texts) == 0 {
		return p
	}
	p.lines = groupLines(texts, opts.RowTolerance)
	p.left, p.charWidth = pageMetrics(texts)
	p.lineGap = medianLineGap(p.lines)
	return p
}

// groupLines buckets glyphs by Y (top of page first, PDF Y grows upwards)
// and sorts each bucket by X.
func groupLines(texts []pdf.Text, tolerance float64) []textLine {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []textLine
	for _, t := range sorted {
		if n := len(lines); n > 0 && math.Abs(lines[n-1].y-t.Y) <= tolerance {
			lines[n-1].glyphs = append(lines[n-1].glyphs, t)
			continue
		}
		lines = append(lines, textLine{y: t.Y, glyphs: []pdf.Text{t}})
	}
	for i := range lines {
		g := lines[i].glyphs
		sort.SliceStable(g, func(a, b int) bool { return g[a].X < g[b].X })
	}
	return lines
}

// pageMetrics returns the left text margin and the median character width.
func pageMetrics(texts []pdf.Text) (left, charWidth float64) {
	left = math.Inf(1)
	var widths []float64
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		left = math.Min(left, t.X)
		if n := utf8.RuneCountInString(t.S); t.W > 0 && n > 0 {
			widths = append(widths, t.W/float64(n))
		}
	}
	if math.IsInf(left, 1) {
		left = 0
	}
	charWidth = median(widths)
	if charWidth <= 0 {
		charWidth = 5
	}
	return left, charWidth
}

func medianLineGap(lines []textLine) float64 {
	gaps := make([]float64, 0, len(lines))
	for i := 1; i < len(lines); i++ {
		gaps = append(gaps, lines[i-1].y-lines[i].y)
	}
	return median(gaps)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	return s[len(s)/2]
}

// words splits a line at blank glyphs and at gaps wider than tolerance.
func (l textLine) words(tolerance float64) []span {
	var (
		out []span
		cur *span
	)
	for _, g := range l.glyphs {
		if strings.TrimSpace(g.S) == "" {
			cur = nil
			continue
		}
		if cur != nil && g.X-cur.x1 <= tolerance {
			cur.text += g.S
			cur.x1 = math.Max(cur.x1, g.X+g.W)
			continue
		}
		out = append(out, span{x0: g.X, x1: g.X + g.W, text: g.S})
		cur = &out[len(out)-1]
	}
	return out
}

// LayoutText places every word on a character grid derived from its X
// position so that columns line up across lines.
func (p *glyphPage) LayoutText(xTolerance float64) string {
	out := make([]string, 0, len(p.lines))
	for _, line := range p.lines {
		var b strings.Builder
		n := 0
		for i, w := range line.words(xTolerance) {
			col := int(math.Round((w.x0 - p.left) / p.charWidth))
			if col < 0 {
				col = 0
			}
			if i > 0 && col <= n {
				col = n + 1
			}
			b.WriteString(strings.Repeat(" ", col-n))
			b.WriteString(w.text)
			n = col + utf8.RuneCountInString(w.text)
		}
		if s := strings.TrimRight(b.String(), " "); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// cells merges a line's words into cells wherever the gap between them is
// narrower than the column gap.
func (p *glyphPage) cells(line textLine) []span {
	gap := p.opts.ColumnGap * p.charWidth
	var out []span
	for _, w := range line.words(p.opts.WordTolerance) {
		if n := len(out); n > 0 && w.x0-out[n-1].x1 < gap {
			out[n-1].text += " " + w.text
			out[n-1].x1 = math.Max(out[n-1].x1, w.x1)
			continue
		}
		out = append(out, w)
	}
	return out
}

// Tables finds runs of consecutive multi-cell lines and turns each run into
// a table whose columns are the merged horizontal extents of its cells.
// Single-cell lines inside a run (wrapped descriptions, footers) stay in
// the run as long as they sit within its horizontal extent.
func (p *glyphPage) Tables() []models.RawTable {
	var (
		tables []models.RawTable
		run    [][]span
		prevY  float64
		x0, x1 float64
	)
	flush := func() {
		if len(run) >= p.opts.MinTableRows {
			tables = append(tables, buildTable(run, p.charWidth))
		}
		run = nil
	}

	for _, line := range p.lines {
		cells := p.cells(line)
		if len(cells) == 0 {
			continue
		}
		if len(run) > 0 && p.lineGap > 0 && prevY-line.y > p.opts.LineGapFactor*p.lineGap {
			flush()
		}
		switch {
		case len(cells) >= 2:
			if len(run) == 0 {
				x0, x1 = cells[0].x0, cells[len(cells)-1].x1
			}
			x0 = math.Min(x0, cells[0].x0)
			x1 = math.Max(x1, cells[len(cells)-1].x1)
			run = append(run, cells)
		case len(run) > 0 && cells[0].x0 >= x0 && cells[0].x1 <= x1:
			run = append(run, cells)
		default:
			flush()
		}
		prevY = line.y
	}
	flush()
	return tables
}

// buildTable infers column extents from the multi-cell lines of a run and
// slots every cell into the column its centre falls in.
func buildTable(run [][]span, charWidth float64) models.RawTable {
	var extents []span
	for _, cells := range run {
		if len(cells) >= 2 {
			extents = append(extents, cells...)
		}
	}
	sort.Slice(extents, func(i, j int) bool { return extents[i].x0 < extents[j].x0 })

	var columns []span
	for _, e := range extents {
		if n := len(columns); n > 0 && e.x0 <= columns[n-1].x1+charWidth/2 {
			columns[n-1].x1 = math.Max(columns[n-1].x1, e.x1)
			continue
		}
		columns = append(columns, span{x0: e.x0, x1: e.x1})
	}

	table := make(models.RawTable, 0, len(run))
	for _, cells := range run {
		row := make(models.RawRow, len(columns))
		for _, c := range cells {
			i := columnFor(columns, c.center())
			if row[i] == nil {
				text := c.text
				row[i] = &text
				continue
			}
			*row[i] += " " + c.text
		}
		table = append(table, row)
	}
	return table
}

// columnFor returns the column containing x, or the nearest one.
func columnFor(columns []span, x float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, col := range columns {
		if x >= col.x0 && x <= col.x1 {
			return i
		}
		d := math.Min(math.Abs(x-col.x0), math.Abs(x-col.x1))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
