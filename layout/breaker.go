package layout

import "math"

// Penalty weights. Overflowing a line always costs more than any fit.
const (
	overflowPenalty  = 10000
	underfillWeight  = 10
	parenBreakWeight = 150
	afterOpWeight    = 100
	beforeOpWeight   = 50

	// minBudget keeps continuation lines measurable when the indent eats
	// the whole width.
	minBudget = 1
)

// FitToWidth breaks the line into the partition with the lowest total
// penalty. The first line may use width, continuation lines width minus
// p.Indent. Atoms are moved in place: continuation lines start at the
// indent column, each below the previous one. Calling FitToWidth again
// starts over from the flattened positions.
func (l *Line) FitToWidth(width float64, p Params) {
	l.reset()
	n := len(l.Atoms)
	if n == 0 {
		return
	}
	end := n - 1

	prefix := make([]float64, n+1)
	for i, a := range l.Atoms {
		prefix[i+1] = prefix[i] + a.Width
	}
	budget := func(start int) float64 {
		if start == 0 {
			return math.Max(width, minBudget)
		}
		return math.Max(width-p.Indent, minBudget)
	}

	// best[s] is the last atom of the first line when s..end is laid out
	// optimally; cost[s] is the penalty of that layout.
	best := make([]int, n)
	cost := make([]float64, n)
	for start := end; start >= 0; start-- {
		w := budget(start)
		best[start] = end
		cost[start] = l.penalty(prefix, start, end, w)
		for endl := start; endl < end; endl++ {
			c := l.penalty(prefix, start, endl, w) + cost[endl+1]
			if c < cost[start] {
				cost[start] = c
				best[start] = endl
			}
		}
	}

	// The first line keeps the left margin and moves up just enough for
	// its own tallest atom.
	startl, endl := 0, best[0]
	xoff := 0.0
	yoff := -(l.maxAscent(0, end) - l.maxAscent(0, endl))
	l.shift(startl, endl, xoff, yoff)

	xoff = p.Indent
	for endl < end {
		next := best[endl+1]
		xoff -= prefix[endl+1] - prefix[startl]
		yoff += l.maxDescent(startl, endl) + p.Leading + l.maxAscent(endl+1, next)
		l.shift(endl+1, next, xoff, yoff)
		startl, endl = endl+1, next
	}
}

// Penalty returns the cost of setting atoms s..e as one line of the
// given width, including the cost of breaking after e.
func (l *Line) Penalty(s, e int, width float64) float64 {
	prefix := make([]float64, len(l.Atoms)+1)
	for i, a := range l.Atoms {
		prefix[i+1] = prefix[i] + a.Width
	}
	return l.penalty(prefix, s, e, width)
}

func (l *Line) penalty(prefix []float64, s, e int, width float64) float64 {
	var p float64
	w := prefix[e+1] - prefix[s]
	// Short lines are penalized by the square so that two moderate lines
	// beat one short and one long line.
	if w > width {
		r := (w - width) / width
		p = overflowPenalty + r*r
	} else {
		r := (width - w) / width
		p = underfillWeight * r * r
	}
	if e == len(l.Atoms)-1 {
		return p
	}

	// Breaking after an operator is worse than just before it, and both
	// get worse with depth and with tighter binding operators.
	left, right := l.Atoms[e], l.Atoms[e+1]
	depth := float64(left.Depth)
	if left.Kind == KindLeftParen || right.Kind == KindRightParen {
		p += parenBreakWeight * depth
	}
	if left.Kind == KindOperator {
		p += (afterOpWeight + float64(left.Precedence)) * depth
	} else if right.Kind == KindOperator {
		p += (beforeOpWeight + float64(right.Precedence)) * depth
	}
	return p
}

func (l *Line) shift(s, e int, dx, dy float64) {
	for _, a := range l.Atoms[s : e+1] {
		a.Move(dx, dy)
	}
	l.Breaks = append(l.Breaks, Span{Start: s, End: e})
}

func (l *Line) maxAscent(s, e int) float64 {
	v := 0.0
	for _, a := range l.Atoms[s : e+1] {
		v = math.Max(v, a.Ascent)
	}
	return v
}

func (l *Line) maxDescent(s, e int) float64 {
	v := 0.0
	for _, a := range l.Atoms[s : e+1] {
		v = math.Max(v, a.Descent)
	}
	return v
}
