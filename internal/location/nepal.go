package location

var standardOffices = []string{
	"Ward Office",
	"Municipality Office",
	"Electricity Authority",
	"Water Supply",
	"Police (Non-Emergency)",
	"University Administration",
}

// Nepal is the routing table used in production. Only Bagmati is covered for now.
var Nepal = New(map[string]map[string][]string{
	"Bagmati": {
		"Kathmandu": standardOffices,
		"Lalitpur":  standardOffices,
		"Bhaktapur": standardOffices,
		"Chitwan":   standardOffices,
		"Makwanpur": standardOffices,
	},
})
