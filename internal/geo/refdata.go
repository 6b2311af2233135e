package geo

// City is a weighted population center used to bias the sample.
type City struct {
	Name   string
	Lat    float64
	Lng    float64
	Weight float64
	Spread float64 // standard deviation of the urban cluster, degrees
}

// Cities is the static reference list of German population centers. Weights
// roughly follow metro population; spread grows with sprawl.
var Cities = []City{
	{Name: "Berlin", Lat: 52.5200, Lng: 13.4050, Weight: 3.6, Spread: 0.18},
	{Name: "Hamburg", Lat: 53.5511, Lng: 9.9937, Weight: 1.9, Spread: 0.14},
	{Name: "Munich", Lat: 48.1351, Lng: 11.5820, Weight: 1.5, Spread: 0.12},
	{Name: "Cologne", Lat: 50.9375, Lng: 6.9603, Weight: 1.1, Spread: 0.11},
	{Name: "Frankfurt", Lat: 50.1109, Lng: 8.6821, Weight: 0.8, Spread: 0.10},
	{Name: "Stuttgart", Lat: 48.7758, Lng: 9.1829, Weight: 0.6, Spread: 0.10},
	{Name: "Duesseldorf", Lat: 51.2277, Lng: 6.7735, Weight: 0.6, Spread: 0.09},
	{Name: "Leipzig", Lat: 51.3397, Lng: 12.3731, Weight: 0.6, Spread: 0.09},
	{Name: "Dortmund", Lat: 51.5136, Lng: 7.4653, Weight: 0.6, Spread: 0.09},
	{Name: "Dresden", Lat: 51.0504, Lng: 13.7373, Weight: 0.55, Spread: 0.08},
	{Name: "Hanover", Lat: 52.3759, Lng: 9.7320, Weight: 0.5, Spread: 0.08},
	{Name: "Nuremberg", Lat: 49.4521, Lng: 11.0767, Weight: 0.5, Spread: 0.08},
}

// Highways is the static reference autobahn geometry, coarse polylines
// connecting the major interchanges of each route.
var Highways = []Polyline{
	// A1 Hamburg - Bremen - Ruhr - Cologne - Saarbruecken
	{
		{Lat: 53.5511, Lng: 9.9937}, {Lat: 53.0793, Lng: 8.8017},
		{Lat: 52.2757, Lng: 7.9930}, {Lat: 51.5136, Lng: 7.4653},
		{Lat: 50.9375, Lng: 6.9603}, {Lat: 49.7596, Lng: 6.6441},
		{Lat: 49.2402, Lng: 6.9969},
	},
	// A2 Oberhausen - Hanover - Magdeburg - Berlin ring
	{
		{Lat: 51.4963, Lng: 6.8638}, {Lat: 51.9607, Lng: 7.6261},
		{Lat: 52.3759, Lng: 9.7320}, {Lat: 52.2296, Lng: 10.5268},
		{Lat: 52.1205, Lng: 11.6276}, {Lat: 52.3906, Lng: 13.0645},
	},
	// A3 Emmerich - Cologne - Frankfurt - Nuremberg - Passau
	{
		{Lat: 51.8320, Lng: 6.2468}, {Lat: 51.2277, Lng: 6.7735},
		{Lat: 50.9375, Lng: 6.9603}, {Lat: 50.3569, Lng: 7.5890},
		{Lat: 50.1109, Lng: 8.6821}, {Lat: 49.7913, Lng: 9.9534},
		{Lat: 49.4521, Lng: 11.0767}, {Lat: 48.8848, Lng: 12.5823},
		{Lat: 48.5665, Lng: 13.4312},
	},
	// A5 Hattenbach - Frankfurt - Karlsruhe - Basel
	{
		{Lat: 50.8065, Lng: 9.5633}, {Lat: 50.5558, Lng: 8.6784},
		{Lat: 50.1109, Lng: 8.6821}, {Lat: 49.4875, Lng: 8.4660},
		{Lat: 49.0069, Lng: 8.4037}, {Lat: 48.3705, Lng: 7.8210},
		{Lat: 47.5596, Lng: 7.5886},
	},
	// A7 Flensburg - Hamburg - Kassel - Wuerzburg - Ulm - Fuessen
	{
		{Lat: 54.7837, Lng: 9.4360}, {Lat: 53.5511, Lng: 9.9937},
		{Lat: 52.3759, Lng: 9.7320}, {Lat: 51.3127, Lng: 9.4797},
		{Lat: 50.3604, Lng: 9.7586}, {Lat: 49.7913, Lng: 9.9534},
		{Lat: 48.4011, Lng: 9.9876}, {Lat: 47.5708, Lng: 10.6997},
	},
	// A8 Karlsruhe - Stuttgart - Munich - Salzburg
	{
		{Lat: 48.9960, Lng: 8.4720}, {Lat: 48.7758, Lng: 9.1829},
		{Lat: 48.4011, Lng: 9.9876}, {Lat: 48.2674, Lng: 10.8810},
		{Lat: 48.1351, Lng: 11.5820}, {Lat: 47.8567, Lng: 12.6466},
	},
	// A9 Berlin - Leipzig - Nuremberg - Munich
	{
		{Lat: 52.3906, Lng: 13.0645}, {Lat: 51.8369, Lng: 12.2430},
		{Lat: 51.3397, Lng: 12.3731}, {Lat: 50.9216, Lng: 11.5847},
		{Lat: 50.0121, Lng: 11.5047}, {Lat: 49.4521, Lng: 11.0767},
		{Lat: 48.7686, Lng: 11.4237}, {Lat: 48.1351, Lng: 11.5820},
	},
	// A24 Hamburg - Berlin
	{
		{Lat: 53.5511, Lng: 9.9937}, {Lat: 53.3655, Lng: 10.6866},
		{Lat: 53.1235, Lng: 11.8357}, {Lat: 52.8270, Lng: 12.6950},
		{Lat: 52.6412, Lng: 13.2041},
	},
}
