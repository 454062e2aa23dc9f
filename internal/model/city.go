package model

// City is a browse entry on the home page.
type City struct {
	Name  string `json:"city"`
	State string `json:"state"`
	Slug  string `json:"slug"`
}

// FeaturedCities is the "Browse by City" grid on the home page.
var FeaturedCities = []City{
	{Name: "Los Angeles", State: "California", Slug: "los-angeles"},
	{Name: "New York", State: "New York", Slug: "new-york"},
	{Name: "Chicago", State: "Illinois", Slug: "chicago"},
	{Name: "Austin", State: "Texas", Slug: "austin"},
	{Name: "Seattle", State: "Washington", Slug: "seattle"},
	{Name: "Portland", State: "Oregon", Slug: "portland"},
	{Name: "San Francisco", State: "California", Slug: "san-francisco"},
	{Name: "Boston", State: "Massachusetts", Slug: "boston"},
	{Name: "Philadelphia", State: "Pennsylvania", Slug: "philadelphia"},
	{Name: "Denver", State: "Colorado", Slug: "denver"},
	{Name: "Minneapolis", State: "Minnesota", Slug: "minneapolis"},
	{Name: "Atlanta", State: "Georgia", Slug: "atlanta"},
}
