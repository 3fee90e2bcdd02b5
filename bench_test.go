package dynval

import (
	"reflect"
	"testing"
)

// Benchmark forward mapping of a small struct graph.
func BenchmarkMapper_MapObject(b *testing.B) {
	pair := &Pair{Left: &Node{Name: "l"}, Right: &Node{Name: "r"}}
	mapper := New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mapper.MapObject(pair, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark reverse mapping of a slice of structs.
func BenchmarkMapper_Map_Slice(b *testing.B) {
	points := make([]Point, 100)
	for i := range points {
		points[i] = Point{X: i, Y: -i, Label: "p"}
	}
	mapper := New()
	value, err := mapper.MapObject(points, nil)
	if err != nil {
		b.Fatal(err)
	}
	target := reflect.TypeOf(points)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = mapper.Map(value, target); err != nil {
			b.Fatal(err)
		}
	}
}
