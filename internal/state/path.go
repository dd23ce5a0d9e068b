package state

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPath encodes points as "M x,y L x,y ..." with two decimals.
func FormatPath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteString(" L")
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	return b.String()
}

// ParsePath decodes the output of FormatPath. A command letter may be
// separated from its coordinates by whitespace. Only a single leading M is
// accepted since a stroke is one continuous line.
func ParsePath(d string) ([]Point, error) {
	fields := strings.Fields(d)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadPath)
	}

	var points []Point
	var cmd byte
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch f[0] {
		case 'M', 'L':
			cmd = f[0]
			f = f[1:]
			if f == "" {
				i++
				if i == len(fields) {
					return nil, fmt.Errorf("%w: %c without coordinates", ErrBadPath, cmd)
				}
				f = fields[i]
			}
		default:
			if cmd == 0 {
				return nil, fmt.Errorf("%w: expected command, got %q", ErrBadPath, f)
			}
			// Pairs after the M point are implicit line-tos.
			if cmd == 'M' {
				cmd = 'L'
			}
		}
		if cmd == 'M' && len(points) > 0 {
			return nil, fmt.Errorf("%w: more than one M command", ErrBadPath)
		}
		if cmd == 'L' && len(points) == 0 {
			return nil, fmt.Errorf("%w: L before M", ErrBadPath)
		}

		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("%w: coordinate pair %q", ErrBadPath, f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPath, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPath, err)
		}
		points = append(points, Pt(x, y))
	}
	return points, nil
}
