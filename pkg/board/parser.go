package board

import (
	"math"
	"strings"
)

// Parse reads the text of a .kicad_pcb file and returns its footprints in
// file order along with board-level metadata.
//
// Both the current (footprint ...) blocks and the legacy (module ...) blocks
// are recognized. Children the parser does not know about are skipped, so
// newer file versions keep working as long as the fields used here survive.
func Parse(data []byte) (*Board, error) {
	root, err := ParseExpr(string(data))
	if err != nil {
		return nil, err
	}
	if root.Head() != "kicad_pcb" {
		return nil, &ParseError{Line: root.Line, Msg: "not a KiCad board: root element is (" + root.Head() + ")"}
	}

	b := &Board{}
	if v := root.Child("version"); v != nil {
		b.Version, _ = v.Arg(0)
	}
	if g := root.Child("generator"); g != nil {
		b.Generator, _ = g.Arg(0)
	}

	if setup := root.Child("setup"); setup != nil {
		if b.DrillOrigin, err = parseOptionalPoint(setup.Child("aux_axis_origin")); err != nil {
			return nil, err
		}
		if b.GridOrigin, err = parseOptionalPoint(setup.Child("grid_origin")); err != nil {
			return nil, err
		}
	}

	for _, node := range root.List[1:] {
		switch node.Head() {
		case "footprint", "module":
			fp, err := parseFootprint(node)
			if err != nil {
				return nil, err
			}
			b.Footprints = append(b.Footprints, *fp)
		}
	}

	return b, nil
}

func parseOptionalPoint(e *Expr) (*Point, error) {
	if e == nil {
		return nil, nil
	}
	x, err := e.Float(0)
	if err != nil {
		return nil, err
	}
	y, err := e.Float(1)
	if err != nil {
		return nil, err
	}
	return &Point{X: x, Y: y}, nil
}

func parseFootprint(node *Expr) (*Footprint, error) {
	fp := &Footprint{
		Attributes: make(map[string]string),
		Line:       node.Line,
	}

	if id, ok := node.Arg(0); ok {
		if lib, name, found := strings.Cut(id, ":"); found {
			fp.Library, fp.Package = lib, name
		} else {
			fp.Package = id
		}
	}

	for _, prop := range node.Children("property") {
		name, ok := prop.Arg(0)
		if !ok {
			continue
		}
		value, _ := prop.Arg(1)
		fp.Attributes[name] = value
	}

	// Boards saved before KiCad 8 keep reference and value in fp_text.
	for _, text := range node.Children("fp_text") {
		kind, _ := text.Arg(0)
		value, _ := text.Arg(1)
		switch kind {
		case "reference":
			if _, ok := fp.Attributes["Reference"]; !ok {
				fp.Attributes["Reference"] = value
			}
		case "value":
			if _, ok := fp.Attributes["Value"]; !ok {
				fp.Attributes["Value"] = value
			}
		}
	}

	fp.Reference = fp.Attributes["Reference"]
	fp.Value = fp.Attributes["Value"]
	if fp.Reference == "" {
		return nil, &ParseError{Line: node.Line, Msg: "footprint " + fp.Package + " has no reference designator"}
	}

	at := node.Child("at")
	if at == nil {
		return nil, &ParseError{Line: node.Line, Reference: fp.Reference, Msg: "missing position (at x y)"}
	}
	var err error
	if fp.Position.X, err = at.Float(0); err != nil {
		return nil, withReference(err, fp.Reference)
	}
	if fp.Position.Y, err = at.Float(1); err != nil {
		return nil, withReference(err, fp.Reference)
	}
	if _, ok := at.Arg(2); ok {
		if fp.Rotation, err = at.Float(2); err != nil {
			return nil, withReference(err, fp.Reference)
		}
	}

	if layer := node.Child("layer"); layer != nil {
		if name, _ := layer.Arg(0); name == "B.Cu" {
			fp.Side = Bottom
		}
	}

	parseFlags(node, &fp.Flags)

	for _, pad := range node.Children("pad") {
		if kind, _ := pad.Arg(1); kind == "thru_hole" {
			fp.Mount = PTH
			break
		}
	}

	size, err := courtyardSize(node)
	if err != nil {
		return nil, withReference(err, fp.Reference)
	}
	fp.Size = size

	return fp, nil
}

func withReference(err error, ref string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Reference = ref
	}
	return err
}

func parseFlags(node *Expr, flags *Flags) {
	set := func(name string) {
		switch name {
		case "virtual":
			flags.Virtual = true
		case "dnp":
			flags.DNP = true
		case "board_only":
			flags.BoardOnly = true
		case "exclude_from_pos_files":
			flags.ExcludeFromPosFiles = true
		case "exclude_from_bom":
			flags.ExcludeFromBOM = true
		}
	}

	if attr := node.Child("attr"); attr != nil {
		for _, a := range attr.Args() {
			set(a)
		}
	}

	// Newer files may also write flags as standalone (name yes) lists.
	for _, name := range []string{"virtual", "dnp", "board_only", "exclude_from_pos_files", "exclude_from_bom"} {
		if c := node.Child(name); c != nil {
			if v, ok := c.Arg(0); !ok || v == "yes" {
				set(name)
			}
		}
	}
}

var courtyardShapes = []string{"fp_line", "fp_rect", "fp_circle", "fp_arc", "fp_poly"}

// courtyardSize returns the bounding box of every courtyard graphic.
// Footprint graphics are stored in the footprint's own unrotated frame,
// so the result does not depend on the placement angle.
func courtyardSize(node *Expr) (*Size, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	for _, head := range courtyardShapes {
		for _, shape := range node.Children(head) {
			layer := shape.Child("layer")
			if layer == nil {
				continue
			}
			if name, _ := layer.Arg(0); name != "F.CrtYd" && name != "B.CrtYd" {
				continue
			}

			if head == "fp_circle" {
				c, err := parseOptionalPoint(shape.Child("center"))
				if err != nil {
					return nil, err
				}
				e, err := parseOptionalPoint(shape.Child("end"))
				if err != nil {
					return nil, err
				}
				if c == nil || e == nil {
					continue
				}
				r := math.Hypot(e.X-c.X, e.Y-c.Y)
				add(c.X-r, c.Y-r)
				add(c.X+r, c.Y+r)
				continue
			}

			if head == "fp_arc" {
				if err := addArc(shape, add); err != nil {
					return nil, err
				}
				continue
			}

			for _, key := range []string{"start", "end"} {
				p, err := parseOptionalPoint(shape.Child(key))
				if err != nil {
					return nil, err
				}
				if p != nil {
					add(p.X, p.Y)
				}
			}
			if pts := shape.Child("pts"); pts != nil {
				for _, xy := range pts.Children("xy") {
					p, err := parseOptionalPoint(xy)
					if err != nil {
						return nil, err
					}
					add(p.X, p.Y)
				}
			}
		}
	}

	if math.IsInf(minX, 1) {
		return nil, nil
	}
	return &Size{Width: maxX - minX, Height: maxY - minY}, nil
}

// addArc adds the endpoints of an fp_arc and every axis extreme its sweep
// crosses. Current files give (start) (mid) (end) on the arc; legacy files
// give the centre as (start), the first point as (end) and the sweep in
// degrees as (angle).
func addArc(shape *Expr, add func(x, y float64)) error {
	start, err := parseOptionalPoint(shape.Child("start"))
	if err != nil {
		return err
	}
	mid, err := parseOptionalPoint(shape.Child("mid"))
	if err != nil {
		return err
	}
	end, err := parseOptionalPoint(shape.Child("end"))
	if err != nil {
		return err
	}
	if start == nil || end == nil {
		return nil
	}

	if mid == nil {
		angle := shape.Child("angle")
		if angle == nil {
			add(start.X, start.Y)
			add(end.X, end.Y)
			return nil
		}
		deg, err := angle.Float(0)
		if err != nil {
			return err
		}
		c := *start
		r := math.Hypot(end.X-c.X, end.Y-c.Y)
		from := math.Atan2(end.Y-c.Y, end.X-c.X)
		addSweep(c, r, from, deg*math.Pi/180, add)
		return nil
	}

	c, ok := circumcenter(*start, *mid, *end)
	if !ok {
		add(start.X, start.Y)
		add(mid.X, mid.Y)
		add(end.X, end.Y)
		return nil
	}
	r := math.Hypot(start.X-c.X, start.Y-c.Y)
	from := math.Atan2(start.Y-c.Y, start.X-c.X)
	toMid := wrapRadians(math.Atan2(mid.Y-c.Y, mid.X-c.X) - from)
	toEnd := wrapRadians(math.Atan2(end.Y-c.Y, end.X-c.X) - from)
	sweep := toEnd
	if toMid > toEnd {
		sweep = toEnd - 2*math.Pi
	}
	addSweep(c, r, from, sweep, add)
	return nil
}

// addSweep adds the arc of radius r around c starting at angle from and
// turning by sweep radians (negative turns the other way).
func addSweep(c Point, r, from, sweep float64, add func(x, y float64)) {
	add(c.X+r*math.Cos(from), c.Y+r*math.Sin(from))
	add(c.X+r*math.Cos(from+sweep), c.Y+r*math.Sin(from+sweep))
	for k := 0; k < 4; k++ {
		axis := float64(k) * math.Pi / 2
		var rel float64
		if sweep >= 0 {
			rel = wrapRadians(axis - from)
		} else {
			rel = wrapRadians(from - axis)
		}
		if rel <= math.Abs(sweep) {
			add(c.X+r*math.Cos(axis), c.Y+r*math.Sin(axis))
		}
	}
}

func circumcenter(a, b, c Point) (Point, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return Point{}, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	return Point{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}, true
}

// wrapRadians maps a into [0, 2π).
func wrapRadians(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
