package networking

// Bank returns the networking questions in display order.
func Bank() []Question {
	out := make([]Question, len(bank))
	copy(out, bank)
	return out
}

var bank = []Question{
	{
		ID:          1,
		Text:        "Which subnet mask matches /24 in CIDR notation?",
		Options:     []string{"255.255.0.0", "255.255.255.0", "255.255.255.255", "255.0.0.0"},
		Correct:     1,
		Category:    "IP addressing",
		Explanation: "/24 means 24 network bits, which gives the mask 255.255.255.0.",
	},
	{
		ID:          2,
		Text:        "Which protocol hands out IP addresses automatically?",
		Options:     []string{"DNS", "DHCP", "ARP", "ICMP"},
		Correct:     1,
		Category:    "Protocols",
		Explanation: "DHCP (Dynamic Host Configuration Protocol) assigns IP addresses automatically.",
	},
	{
		ID:          3,
		Text:        "How many usable host addresses does a /30 subnet have?",
		Options:     []string{"2", "4", "6", "8"},
		Correct:     0,
		Category:    "Subnetting",
		Explanation: "A /30 has 4 addresses; the network and broadcast addresses are reserved, leaving 2.",
	},
	{
		ID:          4,
		Text:        "Which port does HTTPS use?",
		Options:     []string{"80", "443", "8080", "22"},
		Correct:     1,
		Category:    "Ports",
		Explanation: "HTTPS uses port 443 for encrypted HTTP traffic.",
	},
	{
		ID:          5,
		Text:        "What does TTL mean in a TCP/IP packet?",
		Options:     []string{"Total Transfer Length", "Time To Live", "Transfer Time Limit", "Transmission Type Level"},
		Correct:     1,
		Category:    "TCP/IP",
		Explanation: "TTL (Time To Live) caps the number of router hops a packet may take.",
	},
	{
		ID:          6,
		Text:        "Which protocol works at layer 3 of the OSI model?",
		Options:     []string{"TCP", "HTTP", "IP", "Ethernet"},
		Correct:     2,
		Category:    "OSI model",
		Explanation: "IP (Internet Protocol) lives at the network layer, layer 3.",
	},
	{
		ID:   7,
		Text: "What does 'ping' do?",
		Options: []string{
			"Checks whether a host is reachable using ICMP",
			"Opens a TCP connection",
			"Shows the route to a host",
			"Resolves a DNS name",
		},
		Correct:     0,
		Category:    "Diagnostics",
		Explanation: "ping sends ICMP echo requests to check that a host is reachable.",
	},
}
