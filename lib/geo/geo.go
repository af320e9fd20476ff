package geo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// matches one "hemisphere degrees° decimal-minutes" half of a
// coordinate pair, e.g. "N 49° 45.123".
var coordHalf = regexp.MustCompile(`([NSEWnsew])\s*(\d{1,3})[°\s]\s*(\d{1,2}(?:[.,]\d+)?)`)

// Parse reads a coordinate pair in the degrees / decimal minutes
// notation the site uses, e.g. "N 49° 45.123 E 013° 22.123".
func Parse(s string) (Point, error) {
	halves := coordHalf.FindAllStringSubmatch(s, -1)
	if len(halves) != 2 {
		return Point{}, fmt.Errorf("could not parse coordinates from %q", s)
	}

	var p Point
	var gotLat, gotLon bool
	for _, half := range halves {
		deg, err := strconv.Atoi(half[2])
		if err != nil {
			return Point{}, err
		}
		min, err := strconv.ParseFloat(strings.ReplaceAll(half[3], ",", "."), 64)
		if err != nil {
			return Point{}, err
		}
		value := float64(deg) + min/60

		switch strings.ToUpper(half[1]) {
		case "S":
			value = -value
			fallthrough
		case "N":
			if value < -90 || value > 90 {
				return Point{}, fmt.Errorf("latitude %f out of range", value)
			}
			p.Lat = value
			gotLat = true
		case "W":
			value = -value
			fallthrough
		case "E":
			if value < -180 || value > 180 {
				return Point{}, fmt.Errorf("longitude %f out of range", value)
			}
			p.Lon = value
			gotLon = true
		}
	}
	if !gotLat || !gotLon {
		return Point{}, fmt.Errorf("coordinates %q lack a latitude or a longitude", s)
	}
	return p, nil
}

func formatHalf(value float64, positive, negative string) string {
	hemisphere := positive
	if value < 0 {
		hemisphere = negative
		value = -value
	}
	deg := math.Floor(value)
	min := (value - deg) * 60
	return fmt.Sprintf("%s %.0f° %06.3f", hemisphere, deg, min)
}

func (p Point) String() string {
	return formatHalf(p.Lat, "N", "S") + " " + formatHalf(p.Lon, "E", "W")
}
