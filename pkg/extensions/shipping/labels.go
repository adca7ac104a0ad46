package shipping

// Display names for destination countries, cascading to the raw ISO
// code when no label is known. The host application can install its
// own localized lookup.

type CountryLabeler func(isoCode, language string) string

var countryLabeler CountryLabeler

func SetCountryLabeler(labeler CountryLabeler) {
	countryLabeler = labeler
}

var defaultCountryNames = map[string]string{
	"US": "United States",
	"CA": "Canada",
	"GB": "United Kingdom",
	"FR": "France",
	"DE": "Germany",
	"ES": "Spain",
	"IT": "Italy",
	"AU": "Australia",
	"JP": "Japan",
	"CN": "China",
}

func countryDisplayName(isoCode, language string) string {
	if countryLabeler != nil {
		if name := countryLabeler(isoCode, language); name != "" {
			return name
		}
	}
	if name, ok := defaultCountryNames[isoCode]; ok {
		return name
	}
	return isoCode
}
