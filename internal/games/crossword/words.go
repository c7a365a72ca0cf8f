package crossword

// Words returns the seasonal crossword in clue order.
func Words() []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		w.Length = len([]rune(w.Answer))
		out[i] = w
	}
	return out
}

var words = []Word{
	{Number: 1, Clue: "Containerization platform", Answer: "DOCKER", Direction: Across},
	{Number: 2, Clue: "Container orchestration system", Answer: "KUBERNETES", Direction: Across},
	{Number: 3, Clue: "Infrastructure as Code tool from HashiCorp", Answer: "TERRAFORM", Direction: Across},
	{Number: 4, Clue: "Continuous Integration/Continuous Delivery", Answer: "CICD", Direction: Across},
	{Number: 5, Clue: "Programming language from Google", Answer: "GO", Direction: Down},
	{Number: 6, Clue: "Platform where developers collaborate on code", Answer: "GITHUB", Direction: Down},
	{Number: 7, Clue: "Structured Query Language", Answer: "SQL", Direction: Down},
	{Number: 8, Clue: "Hypertext transfer protocol", Answer: "HTTP", Direction: Down},
	{Number: 9, Clue: "JavaScript Object Notation", Answer: "JSON", Direction: Down},
	{Number: 10, Clue: "Application Programming Interface", Answer: "API", Direction: Down},
}
