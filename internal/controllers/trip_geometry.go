package controllers

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

const earthRadiusMiles = 3958.8

var errNotLineString = errors.New("route_geometry must be a GeoJSON LineString with at least two positions")

// parseRouteGeometry accepts route_geometry as a GeoJSON object or as a
// string holding GeoJSON. present is false when the field was absent; a
// null or empty value is present with nil WKB, which clears the route.
func parseRouteGeometry(raw json.RawMessage) (wkbBytes []byte, present bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, true, nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, true, err
		}
		if s == "" {
			return nil, true, nil
		}
		trimmed = []byte(s)
	}

	wkbBytes, err = parseAndConvertGeometry(trimmed)
	return wkbBytes, true, err
}

// parseAndConvertGeometry parses GeoJSON into a LineString and returns WKB bytes
func parseAndConvertGeometry(raw []byte) ([]byte, error) {
	var g geom.T
	if err := gjson.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok || ls.NumCoords() < 2 {
		return nil, errNotLineString
	}
	return wkb.Marshal(ls, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON document
func convertWKBToGeoJSON(wkbBytes []byte) (json.RawMessage, error) {
	if len(wkbBytes) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return nil, err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// routeMiles is the great-circle length of the stored route in miles.
func routeMiles(wkbBytes []byte) (float64, error) {
	if len(wkbBytes) == 0 {
		return 0, nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return 0, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return 0, fmt.Errorf("stored route is %T, not a LineString", g)
	}

	var total float64
	for i := 1; i < ls.NumCoords(); i++ {
		a, b := ls.Coord(i-1), ls.Coord(i)
		total += haversineMiles(a[1], a[0], b[1], b[0]) // GeoJSON order is lng, lat
	}
	return total, nil
}

func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
