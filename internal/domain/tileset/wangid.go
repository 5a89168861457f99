package tileset

import (
	"fmt"
	"strconv"
	"strings"
)

// WangIDSize is the number of color slots in a wang id.
const WangIDSize = 8

// WangID lists the colors around a tile, clockwise from the top edge: top,
// top-right, right, bottom-right, bottom, bottom-left, left, top-left. Even slots
// are edges, odd slots are corners. 0 means no color.
type WangID [WangIDSize]int

type Edge int

const (
	EdgeTop    Edge = 0
	EdgeRight  Edge = 2
	EdgeBottom Edge = 4
	EdgeLeft   Edge = 6
)

type Corner int

const (
	CornerTopRight    Corner = 1
	CornerBottomRight Corner = 3
	CornerBottomLeft  Corner = 5
	CornerTopLeft     Corner = 7
)

func ParseWangID(s string) (WangID, error) {
	var id WangID

	parts := strings.Split(s, ",")
	if len(parts) != WangIDSize {
		return id, fmt.Errorf("wang id %q has %d entries, want %d", s, len(parts), WangIDSize)
	}

	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return id, fmt.Errorf("wang id %q entry %d: %w", s, i, err)
		}

		if v < 0 {
			return id, fmt.Errorf("wang id %q entry %d is negative", s, i)
		}

		id[i] = v
	}

	return id, nil
}

func MustParseWangID(s string) WangID {
	id, err := ParseWangID(s)
	if err != nil {
		panic(err)
	}

	return id
}

func (w WangID) String() string {
	var sb strings.Builder
	for i, v := range w {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}

	return sb.String()
}

func (w WangID) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *WangID) UnmarshalText(b []byte) error {
	id, err := ParseWangID(string(b))
	if err != nil {
		return err
	}

	*w = id
	return nil
}

func (w WangID) Edge(e Edge) int {
	return w[e]
}

func (w WangID) Corner(c Corner) int {
	return w[c]
}

// Corners returns top-right, bottom-right, bottom-left, top-left.
func (w WangID) Corners() [4]int {
	return [4]int{w[CornerTopRight], w[CornerBottomRight], w[CornerBottomLeft], w[CornerTopLeft]}
}

// Edges returns top, right, bottom, left.
func (w WangID) Edges() [4]int {
	return [4]int{w[EdgeTop], w[EdgeRight], w[EdgeBottom], w[EdgeLeft]}
}

// IsWildcard reports whether no slot carries a color.
func (w WangID) IsWildcard() bool {
	return w == WangID{}
}

// MaxColor returns the highest color index used.
func (w WangID) MaxColor() int {
	m := 0
	for _, v := range w {
		if v > m {
			m = v
		}
	}

	return m
}

// Matches reports whether every colored slot of want is equal in w.
func (w WangID) Matches(want WangID) bool {
	for i, v := range want {
		if v != 0 && w[i] != v {
			return false
		}
	}

	return true
}

// Mismatches counts the colored slots of want that differ in w.
func (w WangID) Mismatches(want WangID) int {
	n := 0
	for i, v := range want {
		if v != 0 && w[i] != v {
			n++
		}
	}

	return n
}
