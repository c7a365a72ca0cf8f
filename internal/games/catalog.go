package games

import "fmt"

var catalog = []Game{
	{
		Number:      1,
		Slug:        SlugQuiz,
		Title:       "IT Quiz",
		Description: "Thirty questions on networks, Linux, DevOps, programming and databases.",
		Icon:        "🎄",
		Policy:      UnlockPolicy{Kind: PolicyThreshold, Threshold: 70},
	},
	{
		Number:      2,
		Slug:        SlugCrossword,
		Title:       "Tech Crossword",
		Description: "Fill the grid with ten words from the DevOps toolbox.",
		Icon:        "🧩",
		Policy:      UnlockPolicy{Kind: PolicyThreshold, Threshold: 80},
	},
	{
		Number:      3,
		Slug:        SlugPuzzle,
		Title:       "Sliding Puzzle",
		Description: "Put the winter picture back together on a 4x4 board.",
		Icon:        "❄️",
		Policy:      UnlockPolicy{Kind: PolicyAlways},
	},
	{
		Number:      4,
		Slug:        SlugCoding,
		Title:       "Coding Challenge",
		Description: "Help Santa count the gifts on every wishlist.",
		Icon:        "💻",
		Policy:      UnlockPolicy{Kind: PolicyPass},
	},
	{
		Number:      5,
		Slug:        SlugNetworking,
		Title:       "Networking Quiz",
		Description: "Seven questions about subnets, ports and protocols.",
		Icon:        "🌐",
		Policy:      UnlockPolicy{Kind: PolicyThreshold, Threshold: 60},
	},
	{
		Number:      6,
		Slug:        SlugSurprise,
		Title:       "Surprise",
		Description: "Open the gift and collect your certificate.",
		Icon:        "🎁",
		Policy:      UnlockPolicy{Kind: PolicyTerminal},
	},
}

var bySlug = func() map[Slug]Game {
	m := make(map[Slug]Game, len(catalog))
	for _, g := range catalog {
		m[g.Slug] = g
	}
	return m
}()

// All returns every game in slot order. The returned slice is a copy.
func All() []Game {
	out := make([]Game, len(catalog))
	copy(out, catalog)
	return out
}

// ByNumber returns the game in slot n.
func ByNumber(n int) (Game, error) {
	if !ValidNumber(n) {
		return Game{}, fmt.Errorf("unknown game number %d", n)
	}
	return catalog[n-1], nil
}

// BySlug returns the game registered under slug.
func BySlug(slug Slug) (Game, bool) {
	g, ok := bySlug[slug]
	return g, ok
}

// Next returns the slot following n, or false for the final game.
func Next(n int) (Game, bool) {
	if n < 1 || n >= Count {
		return Game{}, false
	}
	return catalog[n], true
}
