package layout

import (
	"fmt"

	"github.com/chazu/marblemaze/pkg/maze"
	"github.com/chazu/marblemaze/pkg/scene"
)

// PortTolerance is the distance under which two ports are considered the
// same opening.
const PortTolerance = 1e-6

// Piece is one built piece together with the spec it was built from.
type Piece struct {
	Spec  maze.PieceSpec `json:"spec"`
	Solid *scene.Solid   `json:"-"`
}

// Name returns the piece's name.
func (p *Piece) Name() string { return p.Spec.Name }

// Layout is the ordered set of pieces produced by one evaluation. Each
// evaluation produces a new Layout.
type Layout struct {
	Pieces    []*Piece       `json:"pieces"`
	NameIndex map[string]int `json:"name_index"`
	Version   uint64         `json:"version"`
}

// New creates an empty Layout.
func New() *Layout {
	return &Layout{NameIndex: make(map[string]int)}
}

// Add appends a piece. It does not check for duplicate names; Validate
// reports them.
func (l *Layout) Add(p *Piece) {
	l.Pieces = append(l.Pieces, p)
	if p.Name() != "" {
		l.NameIndex[p.Name()] = len(l.Pieces) - 1
	}
}

// Lookup returns the piece with the given name, or nil.
func (l *Layout) Lookup(name string) *Piece {
	i, ok := l.NameIndex[name]
	if !ok {
		return nil
	}
	return l.Pieces[i]
}

// MustLookup returns the piece with the given name, or panics.
func (l *Layout) MustLookup(name string) *Piece {
	p := l.Lookup(name)
	if p == nil {
		panic(fmt.Sprintf("layout: no piece named %q", name))
	}
	return p
}

// OfKind returns the pieces of the given kind in layout order.
func (l *Layout) OfKind(k scene.Kind) []*Piece {
	var out []*Piece
	for _, p := range l.Pieces {
		if p.Spec.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of pieces.
func (l *Layout) Len() int {
	return len(l.Pieces)
}

// Connection is a pair of coincident ports on two different pieces.
type Connection struct {
	From     string `json:"from"`
	FromPort string `json:"from_port"`
	To       string `json:"to"`
	ToPort   string `json:"to_port"`
}

func (c Connection) String() string {
	return fmt.Sprintf("%s.%s <-> %s.%s", c.From, c.FromPort, c.To, c.ToPort)
}

// Connections returns every pair of coincident ports between distinct
// pieces. From always precedes To in layout order.
func (l *Layout) Connections() []Connection {
	var out []Connection
	for i, a := range l.Pieces {
		if a.Solid == nil {
			continue
		}
		for _, b := range l.Pieces[i+1:] {
			if b.Solid == nil {
				continue
			}
			for _, pa := range a.Solid.Ports {
				for _, pb := range b.Solid.Ports {
					if pa.Pos.Sub(pb.Pos).Len() <= PortTolerance {
						out = append(out, Connection{From: a.Name(), FromPort: pa.Name, To: b.Name(), ToPort: pb.Name})
					}
				}
			}
		}
	}
	return out
}
