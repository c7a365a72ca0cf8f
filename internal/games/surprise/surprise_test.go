package surprise

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGifts(t *testing.T) {
	gs := Gifts()
	require.Len(t, gs, 5)

	g, ok := GiftByID(2)
	require.True(t, ok)
	assert.Equal(t, "DevOps Sticker", g.Title)

	_, ok = GiftByID(42)
	assert.False(t, ok)
}

func TestCardSVGIsWellFormed(t *testing.T) {
	g := Gift{ID: 9, Title: `Tom & "Jerry" <3`, Emoji: "🎁", Color: "#000000"}
	svg := CardSVG(g)

	dec := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
	assert.Contains(t, string(svg), "Tom &amp;")
	assert.Contains(t, string(svg), `fill="#000000"`)
}

func TestOpen(t *testing.T) {
	r := Open("Merry Christmas!")
	assert.Equal(t, OpenScore, r.Score)
	assert.Equal(t, "Merry Christmas!", r.Greeting)
	assert.Len(t, r.Gifts, 5)
}
