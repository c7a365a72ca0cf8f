// Package surprise implements the final gift reveal and the downloadable gift
// cards.
package surprise

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// OpenScore is recorded when the gift is opened.
const OpenScore = 100

// Gift is a downloadable card.
type Gift struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
	Kind  string `json:"kind"`
	Color string `json:"color"`
}

var gifts = []Gift{
	{ID: 1, Title: "Holiday Card", Emoji: "🎄", Kind: "card", Color: "#C41E3A"},
	{ID: 2, Title: "DevOps Sticker", Emoji: "🐳", Kind: "sticker", Color: "#1D63ED"},
	{ID: 3, Title: "Coding GIF", Emoji: "💻", Kind: "gif", Color: "#165B33"},
	{ID: 4, Title: "IT Meme", Emoji: "😄", Kind: "meme", Color: "#8B5CF6"},
	{ID: 5, Title: "Holiday Badge", Emoji: "🏆", Kind: "badge", Color: "#D4AF37"},
}

// Gifts returns every downloadable gift.
func Gifts() []Gift {
	out := make([]Gift, len(gifts))
	copy(out, gifts)
	return out
}

// GiftByID looks up a gift.
func GiftByID(id int) (Gift, bool) {
	for _, g := range gifts {
		if g.ID == id {
			return g, true
		}
	}
	return Gift{}, false
}

// CardSVG renders a gift as a 600x400 SVG card.
func CardSVG(g Gift) []byte {
	var title bytes.Buffer
	xml.EscapeText(&title, []byte(fmt.Sprintf("%s %s %s", g.Emoji, g.Title, g.Emoji)))

	var b bytes.Buffer
	b.WriteString(`<svg width="600" height="400" xmlns="http://www.w3.org/2000/svg">`)
	fmt.Fprintf(&b, `<rect width="600" height="400" fill="%s"/>`, g.Color)
	fmt.Fprintf(&b, `<text x="300" y="200" text-anchor="middle" font-size="48" fill="white" font-weight="bold">%s</text>`, title.String())
	b.WriteString(`</svg>`)
	return b.Bytes()
}

// Reveal is what the user sees after opening the gift.
type Reveal struct {
	Score    int    `json:"score"`
	Greeting string `json:"greeting"`
	Gifts    []Gift `json:"gifts"`
}

// Open builds the reveal for a user. greeting is produced by the caller.
func Open(greeting string) Reveal {
	return Reveal{Score: OpenScore, Greeting: greeting, Gifts: Gifts()}
}
