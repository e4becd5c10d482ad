// Package geolite wraps the MaxMind GeoLite2 City and ASN databases behind
// a single reader handle with explicit not-found semantics.
package geolite

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

var (
	// ErrNotFound means the address is absent from both databases.
	ErrNotFound = errors.New("address not found in database")
	// ErrInvalidIP means the input could not be parsed as an IP address.
	ErrInvalidIP = errors.New("invalid IP format")
)

// Facts holds the geolocation and network-ownership data for one address.
// Pointer fields are nil when the database has no value.
type Facts struct {
	City    *string
	Region  *string
	Country *string
	ISOCode *string
	Postal  *string
	ASN     *uint
	ASNOrg  *string
}

// Reader owns the City and ASN database handles for the duration of a batch.
type Reader struct {
	city *geoip2.Reader
	asn  *geoip2.Reader
}

// Open loads both databases. Either failing is fatal; a reader with half its
// sources missing would silently produce half-empty records.
func Open(cityPath, asnPath string) (*Reader, error) {
	city, err := geoip2.Open(cityPath)
	if err != nil {
		return nil, fmt.Errorf("opening city database: %w", err)
	}
	asn, err := geoip2.Open(asnPath)
	if err != nil {
		city.Close()
		return nil, fmt.Errorf("opening ASN database: %w", err)
	}
	return &Reader{city: city, asn: asn}, nil
}

// Lookup resolves city and ASN facts for ip. An address present in neither
// database yields ErrNotFound; unparsable input yields ErrInvalidIP.
func (r *Reader) Lookup(ip string) (Facts, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Facts{}, ErrInvalidIP
	}

	cityRec, err := r.city.City(parsed)
	if err != nil {
		return Facts{}, err
	}
	asnRec, err := r.asn.ASN(parsed)
	if err != nil {
		return Facts{}, err
	}

	// geoip2 reports unknown addresses as zero-valued records rather than
	// errors; map that to an explicit not-found.
	cityEmpty := cityRec.Country.IsoCode == "" && cityRec.City.GeoNameID == 0 && len(cityRec.Subdivisions) == 0
	asnEmpty := asnRec.AutonomousSystemNumber == 0 && asnRec.AutonomousSystemOrganization == ""
	if cityEmpty && asnEmpty {
		return Facts{}, ErrNotFound
	}

	facts := Facts{}
	if name := cityRec.City.Names["en"]; name != "" {
		facts.City = &name
	}
	if len(cityRec.Subdivisions) > 0 {
		// The most specific subdivision is the last one.
		if name := cityRec.Subdivisions[len(cityRec.Subdivisions)-1].Names["en"]; name != "" {
			facts.Region = &name
		}
	}
	if name := cityRec.Country.Names["en"]; name != "" {
		facts.Country = &name
	}
	if code := cityRec.Country.IsoCode; code != "" {
		facts.ISOCode = &code
	}
	if code := cityRec.Postal.Code; code != "" {
		facts.Postal = &code
	}
	if asnRec.AutonomousSystemNumber != 0 {
		number := asnRec.AutonomousSystemNumber
		facts.ASN = &number
	}
	if org := asnRec.AutonomousSystemOrganization; org != "" {
		facts.ASNOrg = &org
	}
	return facts, nil
}

// Close releases both database handles.
func (r *Reader) Close() error {
	cityErr := r.city.Close()
	asnErr := r.asn.Close()
	if cityErr != nil {
		return cityErr
	}
	return asnErr
}
