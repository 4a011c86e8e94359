package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAndAll(t *testing.T) {
	type Color string

	red := New(Color("red"))
	blue := New(Color("blue"))
	require.Equal(t, Color("red"), red)

	require.Equal(t, []Color{red, blue}, All[Color]())

	type Empty string
	require.Empty(t, All[Empty]())
}
