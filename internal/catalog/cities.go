package catalog

import "strings"

// City is a supported city.
type City struct {
	ID    string
	Label string
}

// Cities is the allow-list of cities the site routes to.
var Cities = []City{
	{ID: "Bengaluru", Label: "Bengaluru"},
	{ID: "Delhi NCR", Label: "Delhi/NCR"},
	{ID: "Goa", Label: "Goa"},
	{ID: "Mumbai", Label: "Mumbai"},
	{ID: "Pune", Label: "Pune"},
	{ID: "Hyderabad", Label: "Hyderabad"},
	{ID: "Chandigarh", Label: "Chandigarh"},
	{ID: "Jaipur", Label: "Jaipur"},
	{ID: "Chennai", Label: "Chennai"},
}

// CityNames returns the IDs of Cities in order.
func CityNames() []string {
	names := make([]string, len(Cities))
	for i, c := range Cities {
		names[i] = c.ID
	}

	return names
}

// Slugify lowercases s and joins its words with hyphens.
func Slugify(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), ",", "")

	return strings.Join(strings.Fields(s), "-")
}

// Slug returns the URL slug of the city.
func (c City) Slug() string {
	return Slugify(c.ID)
}

// CitySlug derives the routing slug from a club location such as
// "Malleshwaram, Bengaluru". The last comma separated segment is matched
// against Cities; unknown cities are slugified as they are.
func CitySlug(location string) string {
	if strings.TrimSpace(location) == "" {
		return "india"
	}

	parts := strings.Split(location, ",")
	city := strings.TrimSpace(parts[len(parts)-1])

	for _, c := range Cities {
		if strings.EqualFold(c.ID, city) {
			return c.Slug()
		}
	}

	return Slugify(city)
}

// LookupCity finds an allow-listed city by slug.
func LookupCity(slug string) (City, bool) {
	for _, c := range Cities {
		if c.Slug() == strings.ToLower(slug) {
			return c, true
		}
	}

	return City{}, false
}
