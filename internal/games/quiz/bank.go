package quiz

// Bank returns the seasonal question set in display order.
func Bank() []Question {
	out := make([]Question, len(bank))
	copy(out, bank)
	return out
}

var bank = []Question{
	// Networks
	{ID: 1, Category: "Networks", Kind: Single,
		Text:    "Which protocol uses port 443 by default?",
		Options: []string{"HTTP", "HTTPS", "FTP", "SSH"}, Correct: []int{1}},
	{ID: 2, Category: "Networks", Kind: Single,
		Text:    "What is DNS?",
		Options: []string{"Domain Name System", "Data Network Service", "Digital Naming Server", "Dynamic Node System"}, Correct: []int{0}},
	{ID: 3, Category: "Networks", Kind: Single,
		Text:    "Which port does SSH use by default?",
		Options: []string{"21", "22", "23", "25"}, Correct: []int{1}},
	{ID: 4, Category: "Networks", Kind: Multiple,
		Text:    "Which protocols work at the OSI transport layer?",
		Options: []string{"TCP", "UDP", "IP", "HTTP", "ICMP", "FTP"}, Correct: []int{0, 1}},
	{ID: 5, Category: "Networks", Kind: Single,
		Text:    "Which address is a private IPv4 address?",
		Options: []string{"8.8.8.8", "192.168.1.1", "1.1.1.1", "203.0.113.1"}, Correct: []int{1}},
	{ID: 6, Category: "Networks", Kind: Single,
		Text:    "What is DHCP?",
		Options: []string{"Dynamic Host Configuration Protocol", "Data Host Control Protocol", "Domain Host Configuration Process", "Dynamic HTTP Configuration Protocol"}, Correct: []int{0}},
	{ID: 7, Category: "Networks", Kind: Multiple,
		Text:    "Which kinds of NAT exist?",
		Options: []string{"Static NAT", "Dynamic NAT", "PAT", "DNS NAT", "HTTP NAT", "Overload"}, Correct: []int{0, 1, 2, 5}},
	{ID: 8, Category: "Networks", Kind: Single,
		Text:    "Which HTTP method is used to update a resource?",
		Options: []string{"GET", "POST", "PUT", "DELETE"}, Correct: []int{2}},
	{ID: 9, Category: "Networks", Kind: Single,
		Text:    "What does CDN stand for?",
		Options: []string{"Content Delivery Network", "Central Data Network", "Cloud Distribution Node", "Content Distribution Network"}, Correct: []int{0}},
	{ID: 10, Category: "Networks", Kind: Multiple,
		Text:    "Which of these are routing protocols?",
		Options: []string{"OSPF", "BGP", "DNS", "RIP", "SMTP", "EIGRP"}, Correct: []int{0, 1, 3, 5}},

	// Linux
	{ID: 11, Category: "Linux", Kind: Single,
		Text:    "Which Linux command prints the current directory?",
		Options: []string{"ls", "pwd", "cd", "mkdir"}, Correct: []int{1}},
	{ID: 12, Category: "Linux", Kind: Multiple,
		Text:    "Which commands show running processes?",
		Options: []string{"ps", "top", "ls", "htop", "cat", "grep"}, Correct: []int{0, 1, 3}},
	{ID: 13, Category: "Linux", Kind: Single,
		Text: "What does 'chmod 755 file' do?",
		Options: []string{
			"Gives the owner full rights and read+execute to group and others",
			"Deletes the file",
			"Changes the file owner",
			"Copies the file",
		}, Correct: []int{0}},
	{ID: 14, Category: "Linux", Kind: Single,
		Text:    "Which command shows disk usage per filesystem?",
		Options: []string{"du", "df", "ls", "pwd"}, Correct: []int{1}},
	{ID: 15, Category: "Linux", Kind: Multiple,
		Text:    "Which of these are Linux text editors?",
		Options: []string{"vim", "nano", "emacs", "notepad", "gedit", "word"}, Correct: []int{0, 1, 2, 4}},
	{ID: 16, Category: "Linux", Kind: Single,
		Text:    "What does 'sudo' do?",
		Options: []string{"Runs a command with superuser rights", "Stops a process", "Shows system information", "Changes a password"}, Correct: []int{0}},
	{ID: 17, Category: "Linux", Kind: Single,
		Text:    "Which command searches for files?",
		Options: []string{"find", "search", "locate", "grep"}, Correct: []int{0}},

	// DevOps
	{ID: 18, Category: "DevOps", Kind: Single,
		Text: "What does CI/CD stand for?",
		Options: []string{
			"Continuous Integration/Continuous Delivery",
			"Computer Interface/Cloud Data",
			"Code Inspector/Container Deployment",
			"Central Integration/Continuous Development",
		}, Correct: []int{0}},
	{ID: 19, Category: "DevOps", Kind: Multiple,
		Text:    "Which of these are version control systems?",
		Options: []string{"Git", "SVN", "Docker", "Mercurial", "Kubernetes", "Bazaar"}, Correct: []int{0, 1, 3, 5}},
	{ID: 20, Category: "DevOps", Kind: Single,
		Text:    "What is Docker?",
		Options: []string{"A containerization platform", "A version control system", "A database", "A programming language"}, Correct: []int{0}},
	{ID: 21, Category: "DevOps", Kind: Multiple,
		Text:    "Which of these are CI/CD tools?",
		Options: []string{"Jenkins", "GitLab CI", "MySQL", "CircleCI", "MongoDB", "Travis CI"}, Correct: []int{0, 1, 3, 5}},
	{ID: 22, Category: "DevOps", Kind: Single,
		Text:    "What is Kubernetes?",
		Options: []string{"A container orchestration system", "A database", "A programming language", "A text editor"}, Correct: []int{0}},
	{ID: 23, Category: "DevOps", Kind: Multiple,
		Text:    "Which of these are Infrastructure as Code tools?",
		Options: []string{"Terraform", "Ansible", "Photoshop", "Puppet", "Excel", "Chef"}, Correct: []int{0, 1, 3, 5}},
	{ID: 24, Category: "DevOps", Kind: Single,
		Text:    "What is a blue-green deployment?",
		Options: []string{"A release strategy with two identical environments", "A UI color scheme", "A database type", "A programming language"}, Correct: []int{0}},

	// Programming
	{ID: 25, Category: "Programming", Kind: Multiple,
		Text:    "Which of these are JavaScript frameworks?",
		Options: []string{"React", "Django", "Vue.js", "Angular", "Flask", "Svelte"}, Correct: []int{0, 2, 3, 5}},
	{ID: 26, Category: "Programming", Kind: Single,
		Text:    "What is an API?",
		Options: []string{"Application Programming Interface", "Advanced Program Integration", "Automated Process Interface", "Application Process Integration"}, Correct: []int{0}},
	{ID: 27, Category: "Programming", Kind: Multiple,
		Text:    "Which languages are statically typed?",
		Options: []string{"Java", "Python", "C++", "JavaScript", "TypeScript", "Ruby"}, Correct: []int{0, 2, 4}},
	{ID: 28, Category: "Programming", Kind: Single,
		Text:    "What is REST?",
		Options: []string{"Representational State Transfer", "Remote Execution Service Tool", "Rapid Error Stack Trace", "Resource Execution State Transfer"}, Correct: []int{0}},

	// Databases
	{ID: 29, Category: "Databases", Kind: Multiple,
		Text:    "Which of these are kinds of databases?",
		Options: []string{"SQL", "NoSQL", "HTML", "GraphQL", "Time-series", "XML"}, Correct: []int{0, 1, 4}},

	{ID: 30, Category: "Programming", Kind: Single,
		Text:    "What is MVC?",
		Options: []string{"Model-View-Controller", "Multiple Version Control", "Main Visual Component", "Modern Video Codec"}, Correct: []int{0}},
}
