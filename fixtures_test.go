package dynval

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

type Node struct {
	Name string
	Next *Node
}

func (n *Node) Path() string {
	return n.Name
}

type Pair struct {
	Left  *Node
	Right *Node
}

type Wide struct {
	Value int64
	Name  string
}

type Narrow struct {
	Value int32
	Name  string
}

type Point struct {
	X, Y  int
	Label string
}

type Color int

const (
	Red Color = iota
	Green
	Blue
)

type Paint struct {
	Primary Color
	Palette []Color
	Accent  *Color
}

type Level string

func (l Level) String() string {
	return string(l)
}

func (l *Level) UnmarshalText(text []byte) error {
	switch value := strings.ToLower(string(text)); value {
	case "debug", "info", "error":
		*l = Level(value)
		return nil
	}
	return fmt.Errorf("unknown level %s", text)
}

type Blob struct {
	data []byte
}

type Tree map[string]Tree

type Bag struct {
	items []string
}

func (b *Bag) Add(item string) {
	b.items = append(b.items, item)
}

func (b *Bag) All() iter.Seq[string] {
	return slices.Values(b.items)
}

type Names struct {
	values []string
}

func NewNames(values []string) *Names {
	return &Names{values: values}
}

type account struct {
	ID      int
	balance float64
}

type Audit struct {
	Created string
}

type Document struct {
	Audit
	ID     int    `dynval:"name=id"`
	Secret string `dynval:"-"`
	Title  string `dynval:"required"`
}
