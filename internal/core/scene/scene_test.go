package scene

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
)

func TestParseLine(t *testing.T) {
	b, err := ParseLine("Star 10 red 1000 1 2 3 4")
	require.NoError(t, err)
	assert.Equal(t, physics.Body{
		Kind: physics.KindStar, Radius: 10, Color: "red", Mass: 1000, X: 1, Y: 2, Vx: 3, Vy: 4,
	}, *b)
}

func TestParseLineRejects(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"Star 10 red 1000 1 2 3", ErrMalformedLine},
		{"Star 10 red 1000 1 2 3 4 5", ErrMalformedLine},
		{"Moon 10 red 1000 1 2 3 4", physics.ErrUnknownKind},
		{"Star ten red 1000 1 2 3 4", ErrMalformedLine},
		{"Star 10 red NaN 1 2 3 4", ErrMalformedLine},
		{"Star 10 red 1000 1 Inf 3 4", ErrMalformedLine},
		{"Star -1 red 1000 1 2 3 4", physics.ErrInvalidRadius},
		{"Planet 1 red 0 1 2 3 4", physics.ErrInvalidMass},
		{"Planet 1 red -5 1 2 3 4", physics.ErrInvalidMass},
	}
	for _, tt := range tests {
		_, err := ParseLine(tt.line)
		assert.ErrorIs(t, err, tt.want, tt.line)
	}
}

func TestLoadFile(t *testing.T) {
	s, err := NewLoader(false, nil).LoadFile(filepath.Join("testdata", "one_satellite.txt"))
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, physics.KindStar, s[0].Kind)
	assert.Equal(t, physics.KindPlanet, s[1].Kind)
	assert.Equal(t, 29861.0, s[1].Vy)
	assert.NoError(t, s.Validate())
}

func TestLoadStrictReportsLine(t *testing.T) {
	_, err := NewLoader(false, nil).LoadFile(filepath.Join("testdata", "broken.txt"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.ErrorIs(t, err, physics.ErrUnknownKind)
}

func TestLoadSkipInvalid(t *testing.T) {
	s, err := NewLoader(true, nil).LoadFile(filepath.Join("testdata", "broken.txt"))
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, "green", s[1].Color)
}

func TestLoadEmpty(t *testing.T) {
	_, err := NewLoader(false, nil).Load(strings.NewReader("# nothing\n\n"))
	assert.ErrorIs(t, err, ErrEmptyScene)
}

func TestWriteRoundTrip(t *testing.T) {
	in := physics.Scene{
		{Kind: physics.KindStar, Radius: 10, Color: "yellow", Mass: 2e30, X: 0, Y: 0, Vx: 0, Vy: 0},
		{Kind: physics.KindPlanet, Radius: 2.5, Color: "blue", Mass: 5.9722e24, X: 1.496e11 / 3, Y: -3, Vx: 0.1, Vy: 29861.123456789},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), "Star 1.0000000000000000e+01 yellow 2.0000000000000000e+30 "))

	out, err := NewLoader(false, nil).Load(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, *in[i], *out[i])
	}
	assert.Equal(t, Fingerprint(in), Fingerprint(out))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	s := physics.Scene{{Kind: physics.KindPlanet, Mass: 1, Radius: 1}}
	require.NoError(t, WriteFile(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Planet 1.0000000000000000e+00 white 1.0000000000000000e+00 0.0000000000000000e+00 0.0000000000000000e+00 0.0000000000000000e+00 0.0000000000000000e+00\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolveColor(t *testing.T) {
	c, ok := ResolveColor("Red")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, c)

	c, ok = ResolveColor("#102030")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, c)

	c, ok = ResolveColor("glitter")
	assert.False(t, ok)
	assert.Equal(t, fallbackColor, c)
}

func TestFingerprint(t *testing.T) {
	a := physics.Scene{{Kind: physics.KindStar, Mass: 1000}, {Kind: physics.KindPlanet, Mass: 1, X: 100}}
	b := physics.Scene{{Kind: physics.KindStar, Mass: 1000}, {Kind: physics.KindPlanet, Mass: 1, X: 100}}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	before := Fingerprint(a)
	require.NoError(t, physics.Advance(a, 1))
	assert.NotEqual(t, before, Fingerprint(a))

	require.NoError(t, physics.Advance(b, 1))
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	c := physics.Scene{{Kind: physics.KindStar, Mass: 1000}, {Kind: physics.KindPlanet, Mass: 1, X: 100, Color: "x"}}
	d := physics.Scene{{Kind: physics.KindStar, Mass: 1000, Color: "x"}, {Kind: physics.KindPlanet, Mass: 1, X: 100}}
	assert.NotEqual(t, Fingerprint(c), Fingerprint(d))
}
