package weather

// band is a right-exclusive upper bound and the label for values below it.
type band struct {
	limit float64
	label string
}

var temperatureBands = []band{
	{0, "Freezing"},
	{5, "Cold"},
	{10, "Chilly"},
	{15, "Cool"},
	{28, "Warm"},
}

var humidityBands = []band{
	{30, "Dry"},
	{60, "Comfortable"},
}

// Wind bands in m/s, loosely following the Beaufort scale.
var windBands = []band{
	{1, "Calm"},
	{4, "Light Breeze"},
	{8, "Gentle Breeze"},
	{13, "Moderate Breeze"},
	{19, "Fresh Breeze"},
	{25, "Strong Breeze"},
	{33, "Storm"},
}

// labelFor returns the label of the first band whose limit exceeds v,
// or fallback. NaN never compares below a limit and gets fallback.
func labelFor(v float64, bands []band, fallback string) string {
	for _, b := range bands {
		if v < b.limit {
			return b.label
		}
	}
	return fallback
}

// TemperatureLabel maps degrees Celsius to a coarse label.
func TemperatureLabel(celsius float64) string {
	return labelFor(celsius, temperatureBands, "Hot")
}

// HumidityLabel maps relative humidity in percent to a coarse label.
func HumidityLabel(percent float64) string {
	return labelFor(percent, humidityBands, "Humid")
}

// WindLabel maps wind speed in m/s to a coarse label.
func WindLabel(speed float64) string {
	return labelFor(speed, windBands, "Hurricane")
}
