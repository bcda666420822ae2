package threat

// Country is a reference location threats are scattered around.
type Country struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// DefaultCountries is the reference list seeded into the country catalogue.
var DefaultCountries = []Country{
	{Name: "USA", Lat: 39.8283, Lng: -98.5795},
	{Name: "China", Lat: 35.8617, Lng: 104.1954},
	{Name: "Russia", Lat: 61.5240, Lng: 105.3188},
	{Name: "Germany", Lat: 51.1657, Lng: 10.4515},
	{Name: "Brazil", Lat: -14.2350, Lng: -51.9253},
	{Name: "India", Lat: 20.5937, Lng: 78.9629},
	{Name: "Japan", Lat: 36.2048, Lng: 138.2529},
	{Name: "UK", Lat: 55.3781, Lng: -3.4360},
	{Name: "France", Lat: 46.6034, Lng: 1.8883},
	{Name: "Australia", Lat: -25.2744, Lng: 133.7751},
}
