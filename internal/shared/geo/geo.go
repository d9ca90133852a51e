package geo

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// lat/lng points in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// HaversineM returns the great-circle distance in meters.
func HaversineM(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineKm(lat1, lng1, lat2, lng2) * 1000
}

// BearingDeg returns the initial bearing in degrees [0,360) from the first
// point to the second.
func BearingDeg(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLng := toRad(lng2 - lng1)

	y := math.Sin(dLng) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLng)
	return NormalizeBearing(toDeg(math.Atan2(y, x)))
}

// NormalizeBearing wraps an angle in degrees to [0,360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// HeadingDiffDeg returns the absolute difference between two bearings,
// normalized to [0,180].
func HeadingDiffDeg(a, b float64) float64 {
	diff := math.Abs(NormalizeBearing(a) - NormalizeBearing(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// PointToSegmentM returns the shortest distance in meters from a point to the
// segment between two endpoints. Uses an equirectangular projection around the
// segment, which is accurate at navigation scale (tens to hundreds of meters).
func PointToSegmentM(lat, lng, lat1, lng1, lat2, lng2 float64) float64 {
	refLat := toRad((lat1 + lat2) / 2)
	mPerDegLat := 111320.0
	mPerDegLng := 111320.0 * math.Cos(refLat)

	px := (lng - lng1) * mPerDegLng
	py := (lat - lat1) * mPerDegLat
	sx := (lng2 - lng1) * mPerDegLng
	sy := (lat2 - lat1) * mPerDegLat

	segLenSq := sx*sx + sy*sy
	if segLenSq == 0 {
		return math.Hypot(px, py)
	}

	t := (px*sx + py*sy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-t*sx, py-t*sy)
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }
