package stroke

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fp(f float64) *float64 { return &f }

func TestFilter_AcceptsValidPoints(t *testing.T) {
	color := Color{Name: "Red", Value: "#ff0000"}
	raw := []RawPoint{
		{X: fp(10), Y: fp(20), Type: "start"},
		{X: fp(11), Y: fp(21), Type: "move"},
	}

	pts := Filter(raw, color)
	require.Len(t, pts, 2)
	assert.Equal(t, Point{X: 10, Y: 20, Type: TypeStart, Color: "#ff0000"}, pts[0])
	assert.Equal(t, Point{X: 11, Y: 21, Type: TypeMove, Color: "#ff0000"}, pts[1])
}

func TestFilter_DropsInvalidWithoutFailingBatch(t *testing.T) {
	color := DefaultColor()
	raw := []RawPoint{
		{X: nil, Y: fp(1), Type: "start"},               // missing x
		{X: fp(1), Y: nil, Type: "move"},                // missing y
		{X: fp(1), Y: fp(2), Type: "end"},               // unknown type
		{X: fp(1), Y: fp(2), Type: ""},                  // empty type
		{X: fp(math.NaN()), Y: fp(2), Type: "move"},     // NaN
		{X: fp(1), Y: fp(math.Inf(1)), Type: "move"},    // Inf
		{X: fp(5), Y: fp(6), Type: "move"},              // valid
	}

	pts := Filter(raw, color)
	require.Len(t, pts, 1)
	assert.Equal(t, 5.0, pts[0].X)
}

func TestFilter_EmptyBatch(t *testing.T) {
	assert.Empty(t, Filter(nil, DefaultColor()))
	assert.Empty(t, Filter([]RawPoint{{X: nil, Y: nil}}, DefaultColor()))
}

func TestFilter_ColorIsNeverClientSupplied(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(t, "n")
		raw := make([]RawPoint, n)
		for i := range raw {
			raw[i] = RawPoint{
				X:    fp(rapid.Float64().Draw(t, "x")),
				Y:    fp(rapid.Float64().Draw(t, "y")),
				Type: rapid.SampledFrom([]string{"start", "move", "end", ""}).Draw(t, "type"),
			}
		}
		color := Color{Name: "Blue", Value: "#0000ff"}
		for _, pt := range Filter(raw, color) {
			if pt.Color != "#0000ff" {
				t.Fatalf("point color %q not room color", pt.Color)
			}
			if pt.Type != TypeStart && pt.Type != TypeMove {
				t.Fatalf("invalid type %q survived filtering", pt.Type)
			}
		}
	})
}

func TestResolveColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"White", "#ffffff"},
		{"Black", "#000000"},
		{"Red", "#ff0000"},
		{"Green", "#00ff00"},
		{"Blue", "#0000ff"},
	}
	for _, tt := range tests {
		c, err := ResolveColor(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.value, c.Value)
		assert.Equal(t, tt.name, c.Name)
	}
}

func TestResolveColor_Unknown(t *testing.T) {
	for _, name := range []string{"Purple", "white", "", "#ff0000"} {
		_, err := ResolveColor(name)
		assert.ErrorIs(t, err, ErrInvalidColor, "name %q", name)
	}
}

func TestDefaultColor(t *testing.T) {
	c := DefaultColor()
	assert.Equal(t, "White", c.Name)
	assert.Equal(t, "#ffffff", c.Value)

	resolved, err := ResolveColor(c.Name)
	require.NoError(t, err)
	assert.Equal(t, c, resolved)
}

func TestLog_AppendAndSnapshot(t *testing.T) {
	l := NewLog()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Snapshot())

	l.Append([]Point{{X: 1, Y: 2, Type: TypeStart, Color: "#ffffff"}})
	l.Append([]Point{{X: 3, Y: 4, Type: TypeMove, Color: "#ffffff"}})
	require.Equal(t, 2, l.Len())

	snap := l.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, 1.0, snap[0].X)
	assert.Equal(t, 3.0, snap[1].X)

	// Snapshot is a copy; mutating it leaves the log intact.
	snap[0].X = 99
	assert.Equal(t, 1.0, l.Snapshot()[0].X)
}

func TestLog_Clear(t *testing.T) {
	l := NewLog()
	l.Append([]Point{{X: 1, Y: 2, Type: TypeStart}})
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Snapshot())
}

func TestLog_ReplayMatchesAppendOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := NewLog()
		var live []Point
		batches := rapid.IntRange(1, 10).Draw(t, "batches")
		for i := 0; i < batches; i++ {
			n := rapid.IntRange(0, 5).Draw(t, "n")
			batch := make([]Point, n)
			for j := range batch {
				batch[j] = Point{
					X:     float64(rapid.IntRange(0, 800).Draw(t, "x")),
					Y:     float64(rapid.IntRange(0, 600).Draw(t, "y")),
					Type:  TypeMove,
					Color: "#ffffff",
				}
			}
			l.Append(batch)
			live = append(live, batch...)
		}
		snap := l.Snapshot()
		if len(snap) != len(live) {
			t.Fatalf("replay length %d != live length %d", len(snap), len(live))
		}
		for i := range snap {
			if snap[i] != live[i] {
				t.Fatalf("replay diverges at %d", i)
			}
		}
	})
}
