package advisor

var vehicleTypeLabels = map[string]string{
	"car":        "Mobil",
	"motorcycle": "Motor",
	"truck":      "Truk",
	"bus":        "Bus",
}

var cityLabels = map[string]string{
	"jakarta":   "Jakarta",
	"surabaya":  "Surabaya",
	"bandung":   "Bandung",
	"medan":     "Medan",
	"semarang":  "Semarang",
	"makassar":  "Makassar",
	"palembang": "Palembang",
	"tangerang": "Tangerang",
	"bekasi":    "Bekasi",
	"depok":     "Depok",
}

var usageTypeLabels = map[string]string{
	"personal":   "Pribadi",
	"commercial": "Komersial",
	"rideshare":  "Ojek Online/Taksi Online",
	"delivery":   "Kurir/Delivery",
}

// VehicleTypeLabel maps a vehicle type value to its display label.
func VehicleTypeLabel(v string) string {
	if label, ok := vehicleTypeLabels[v]; ok {
		return label
	}
	return v
}

// CityLabel maps a city value to its display label.
func CityLabel(v string) string {
	if label, ok := cityLabels[v]; ok {
		return label
	}
	return v
}

// UsageTypeLabel maps a usage type value to its display label.
func UsageTypeLabel(v string) string {
	if label, ok := usageTypeLabels[v]; ok {
		return label
	}
	return v
}
