// Package coding runs user-submitted JavaScript against a fixed set of test
// cases. A submission passes only when every case returns a value strictly
// equal to the expected one.
package coding

import "encoding/json"

// PassScore is recorded when every test case passes.
const PassScore = 100

// TestCase is one input/expected pair. Both are JSON values.
type TestCase struct {
	Input    json.RawMessage `json:"input"`
	Expected json.RawMessage `json:"expected"`
}

// Challenge describes the function the user has to write.
type Challenge struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Entry       string     `json:"entry"`
	Starter     string     `json:"starter"`
	Tests       []TestCase `json:"tests"`
}

// CountGifts is the seasonal challenge: sum the quantities on a wishlist.
var CountGifts = Challenge{
	ID:    "count-gifts",
	Title: "Count the gifts",
	Description: "Write countGifts(wishlist). It receives an array of objects shaped " +
		"{ name: string, quantity: number } and returns the total number of gifts.\n\n" +
		"countGifts([{ name: \"laptop\", quantity: 2 }, { name: \"mouse\", quantity: 5 }]) // 7",
	Entry:   "countGifts",
	Starter: "function countGifts(wishlist) {\n  // your code here\n}\n",
	Tests: []TestCase{
		{
			Input:    json.RawMessage(`[{"name":"laptop","quantity":2},{"name":"mouse","quantity":5}]`),
			Expected: json.RawMessage(`7`),
		},
		{
			Input:    json.RawMessage(`[{"name":"книга","quantity":3}]`),
			Expected: json.RawMessage(`3`),
		},
		{
			Input:    json.RawMessage(`[]`),
			Expected: json.RawMessage(`0`),
		},
		{
			Input:    json.RawMessage(`[{"name":"телефон","quantity":1},{"name":"навушники","quantity":2},{"name":"клавіатура","quantity":1}]`),
			Expected: json.RawMessage(`4`),
		},
	},
}
