// Package geo implements the great-circle distance used for visit geofencing.
package geo

import "math"

// radioTierraM is the mean Earth radius in meters.
const radioTierraM = 6371000.0

// DistanciaMetros returns the haversine distance in meters between two
// lat/lon points expressed in decimal degrees.
func DistanciaMetros(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return radioTierraM * c
}

// UbicacionValida reports whether the capture point lies within margenMetros
// of the client's registered location.
func UbicacionValida(latCliente, lonCliente, latVisita, lonVisita, margenMetros float64) bool {
	return DistanciaMetros(latCliente, lonCliente, latVisita, lonVisita) <= margenMetros
}
