package metro

// DefaultAreas is the metro table compiled into the site. City names must
// match the city column of the theaters table exactly.
var DefaultAreas = []Area{
	{
		Slug:        "new-york",
		DisplayName: "New York Area",
		State:       "NY",
		Description: "New York's art house scene is unmatched in its diversity and vitality. From Manhattan's legendary repertory houses to Brooklyn and Queens indie havens, these theaters are gathering places for film lovers, educators, and artists.",
		Cities:      []string{"New York", "Brooklyn", "Queens", "Bronx", "Staten Island", "Long Island City"},
	},
	{
		Slug:        "los-angeles",
		DisplayName: "Los Angeles Area",
		State:       "CA",
		Description: "Los Angeles has long been the epicenter of American cinema, and its art house scene reflects that history. Historic single screens, modernist screening rooms, and nonprofit cinematheques offer everything from rare 35mm prints to experimental new media.",
		Cities:      []string{"Los Angeles", "Hollywood", "West Hollywood", "Santa Monica", "Pasadena", "Glendale", "Burbank", "Culver City", "Beverly Hills", "North Hollywood", "Long Beach"},
	},
	{
		Slug:        "san-francisco",
		DisplayName: "San Francisco Bay Area",
		State:       "CA",
		Description: "The Bay Area keeps a remarkable number of restored movie palaces and neighborhood cinemas alive, from San Francisco's historic houses to Berkeley's archive screenings and Marin's community theaters.",
		Cities:      []string{"San Francisco", "Oakland", "Berkeley", "San Jose", "Palo Alto", "San Rafael", "Mill Valley"},
	},
	{
		Slug:        "chicago",
		DisplayName: "Chicago Area",
		State:       "IL",
		Description: "Chicago's independent cinema landscape reflects the city's working-class roots and sophisticated cultural appetite. Restored neighborhood theaters and new venues alike present films the multiplexes won't touch.",
		Cities:      []string{"Chicago", "Evanston", "Oak Park", "Skokie"},
	},
	{
		Slug:        "boston",
		DisplayName: "Greater Boston",
		State:       "MA",
		Description: "Greater Boston pairs university film societies with beloved nonprofit cinemas in Cambridge, Brookline, and Somerville, making it one of the country's densest repertory scenes.",
		Cities:      []string{"Boston", "Cambridge", "Brookline", "Somerville", "Arlington"},
	},
	{
		Slug:        "seattle",
		DisplayName: "Seattle Area",
		State:       "WA",
		Description: "Seattle's cinephile culture runs from festival-run venues and vintage single screens to volunteer-powered film centers across the Puget Sound.",
		Cities:      []string{"Seattle", "Bellevue", "Tacoma", "Edmonds"},
	},
	{
		Slug:        "minneapolis",
		DisplayName: "Twin Cities",
		State:       "MN",
		Description: "Minneapolis and Saint Paul share a thriving art house circuit of nonprofit film societies, restored neighborhood theaters, and microcinemas.",
		Cities:      []string{"Minneapolis", "Saint Paul", "St. Paul", "Edina"},
	},
	{
		Slug:        "washington-dc",
		DisplayName: "Washington, D.C. Area",
		State:       "DC",
		Description: "The capital region's independent screens stretch from downtown Washington into Silver Spring, Bethesda, and Arlington, with archival programs and international premieres year round.",
		Cities:      []string{"Washington", "Silver Spring", "Bethesda", "Alexandria"},
	},
}

var defaultResolver = NewResolver(MustNewTable(DefaultAreas))

// Default returns the resolver over DefaultAreas.
func Default() *Resolver { return defaultResolver }
