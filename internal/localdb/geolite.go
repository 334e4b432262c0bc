package localdb

import (
	"net"
	"strconv"

	"github.com/oschwald/geoip2-golang"
)

// GeoLite：MaxMind GeoLite2-City mmdb 查询
type GeoLite struct {
	r *geoip2.Reader
}

func NewGeoLite(path string) (*GeoLite, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &GeoLite{r: r}, nil
}

func (g *GeoLite) Lookup(ip string) (Location, bool) {
	if g == nil || g.r == nil {
		return Location{}, false
	}
	p := net.ParseIP(ip)
	if p == nil {
		return Location{}, false
	}
	rec, err := g.r.City(p)
	if err != nil || rec == nil {
		return Location{}, false
	}
	l := Location{
		Country:     rec.Country.Names["en"],
		CountryCode: rec.Country.IsoCode,
		City:        rec.City.Names["en"],
		Postal:      rec.Postal.Code,
		TimeZone:    rec.Location.TimeZone,
	}
	if len(rec.Subdivisions) > 0 {
		l.Region = rec.Subdivisions[0].Names["en"]
	}
	if rec.Location.Latitude != 0 || rec.Location.Longitude != 0 {
		l.Latitude = strconv.FormatFloat(rec.Location.Latitude, 'f', -1, 64)
		l.Longitude = strconv.FormatFloat(rec.Location.Longitude, 'f', -1, 64)
	}
	if l.Country == "" && l.CountryCode == "" {
		return Location{}, false
	}
	return l, true
}

func (g *GeoLite) Close() error {
	if g == nil || g.r == nil {
		return nil
	}
	return g.r.Close()
}
