package plotmap

// The drawing surface records clip state without applying it on the
// software pipeline, so vector geometry is cut to the axes frame here
// before it reaches the canvas.

// clipSegment cuts the segment (x0,y0)-(x1,y1) to the rectangle
// [xmin,xmax] x [ymin,ymax] with the Liang-Barsky parametric test. It
// returns the clipped endpoints and whether any part lies inside.
func clipSegment(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	dx := x1 - x0
	dy := y1 - y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			// parallel to this edge
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// clipPolyline cuts a polyline to the rectangle and returns the visible
// runs in order. A line that leaves the rectangle and comes back yields
// one run per visible stretch.
func clipPolyline(pts [][2]float64, xmin, ymin, xmax, ymax float64) [][][2]float64 {
	var runs [][][2]float64
	var run [][2]float64
	flush := func() {
		if len(run) > 1 {
			runs = append(runs, run)
		}
		run = nil
	}
	for i := 1; i < len(pts); i++ {
		x0, y0, x1, y1, ok := clipSegment(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1], xmin, ymin, xmax, ymax)
		if !ok {
			flush()
			continue
		}
		if len(run) > 0 {
			last := run[len(run)-1]
			if last[0] != x0 || last[1] != y0 {
				flush()
			}
		}
		if len(run) == 0 {
			run = append(run, [2]float64{x0, y0})
		}
		run = append(run, [2]float64{x1, y1})
	}
	flush()
	return runs
}

// clipRing cuts a closed ring to the rectangle with Sutherland-Hodgman,
// one rectangle edge at a time. The result may run along the rectangle
// border where the ring was cut; nil means nothing is left. Ring
// orientation survives, so clipped hole rings still subtract.
func clipRing(ring [][2]float64, xmin, ymin, xmax, ymax float64) [][2]float64 {
	inside := [4]func(p [2]float64) bool{
		func(p [2]float64) bool { return p[0] >= xmin },
		func(p [2]float64) bool { return p[0] <= xmax },
		func(p [2]float64) bool { return p[1] >= ymin },
		func(p [2]float64) bool { return p[1] <= ymax },
	}
	cross := [4]func(a, b [2]float64) [2]float64{
		func(a, b [2]float64) [2]float64 { return atX(a, b, xmin) },
		func(a, b [2]float64) [2]float64 { return atX(a, b, xmax) },
		func(a, b [2]float64) [2]float64 { return atY(a, b, ymin) },
		func(a, b [2]float64) [2]float64 { return atY(a, b, ymax) },
	}
	out := ring
	for e := 0; e < 4; e++ {
		in := out
		if len(in) == 0 {
			return nil
		}
		out = nil
		prev := in[len(in)-1]
		prevIn := inside[e](prev)
		for _, cur := range in {
			curIn := inside[e](cur)
			switch {
			case curIn && prevIn:
				out = append(out, cur)
			case curIn && !prevIn:
				out = append(out, cross[e](prev, cur), cur)
			case !curIn && prevIn:
				out = append(out, cross[e](prev, cur))
			}
			prev, prevIn = cur, curIn
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// atX returns the point where segment a-b crosses the vertical line x.
// Callers only pass segments that do cross it.
func atX(a, b [2]float64, x float64) [2]float64 {
	t := (x - a[0]) / (b[0] - a[0])
	return [2]float64{x, a[1] + t*(b[1]-a[1])}
}

// atY returns the point where segment a-b crosses the horizontal line y.
func atY(a, b [2]float64, y float64) [2]float64 {
	t := (y - a[1]) / (b[1] - a[1])
	return [2]float64{a[0] + t*(b[0]-a[0]), y}
}
