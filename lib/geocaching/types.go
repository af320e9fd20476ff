package geocaching

import "strings"

// Type is the canonical cache type. Its value is the icon filename
// the site serves for it (images/WptTypes/<value>.gif), which is the
// stable token the detail page exposes.
type Type string

const (
	TypeTraditional           Type = "2"
	TypeMulticache            Type = "3"
	TypeMystery               Type = "8"
	TypeLetterbox             Type = "5"
	TypeEvent                 Type = "6"
	TypeMegaEvent             Type = "mega"
	TypeGigaEvent             Type = "giga"
	TypeEarthcache            Type = "137"
	TypeCITO                  Type = "13"
	TypeWebcam                Type = "11"
	TypeVirtual               Type = "4"
	TypeWherigo               Type = "1858"
	TypeLostAndFoundEvent     Type = "10Years_32"
	TypeProjectApe            Type = "ape_32"
	TypeGroundspeakHQ         Type = "HQ_32"
	TypeGPSAdventuresExhibit  Type = "1304"
	TypeGroundspeakBlockParty Type = "4738"
	TypeLocationless          Type = "12"
)

// TypeUnknown is the site's older name for the mystery type; they
// share one canonical value.
const TypeUnknown = TypeMystery

var typeNames = map[Type]string{
	TypeTraditional:           "Traditional",
	TypeMulticache:            "Multi-cache",
	TypeMystery:               "Mystery",
	TypeLetterbox:             "Letterbox Hybrid",
	TypeEvent:                 "Event",
	TypeMegaEvent:             "Mega-Event",
	TypeGigaEvent:             "Giga-Event",
	TypeEarthcache:            "Earthcache",
	TypeCITO:                  "Cache In Trash Out Event",
	TypeWebcam:                "Webcam",
	TypeVirtual:               "Virtual",
	TypeWherigo:               "Wherigo",
	TypeLostAndFoundEvent:     "Lost And Found Event",
	TypeProjectApe:            "Project Ape",
	TypeGroundspeakHQ:         "Groundspeak HQ",
	TypeGPSAdventuresExhibit:  "GPS Adventures Exhibit",
	TypeGroundspeakBlockParty: "Groundspeak Block Party",
	TypeLocationless:          "Locationless (Reverse)",
}

var typeLabels = map[string]Type{
	"traditional":              TypeTraditional,
	"multi-cache":              TypeMulticache,
	"mystery":                  TypeMystery,
	"unknown":                  TypeMystery,
	"letterbox hybrid":         TypeLetterbox,
	"event":                    TypeEvent,
	"mega-event":               TypeMegaEvent,
	"giga-event":               TypeGigaEvent,
	"earthcache":               TypeEarthcache,
	"cito":                     TypeCITO,
	"cache in trash out event": TypeCITO,
	"webcam":                   TypeWebcam,
	"virtual":                  TypeVirtual,
	"wherigo":                  TypeWherigo,
	"lost and found event":     TypeLostAndFoundEvent,
	"project ape":              TypeProjectApe,
	"groundspeak hq":           TypeGroundspeakHQ,
	"gps adventures exhibit":   TypeGPSAdventuresExhibit,
	"groundspeak block party":  TypeGroundspeakBlockParty,
	"locationless (reverse)":   TypeLocationless,
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return string(t)
}

func (t Type) valid() bool {
	_, ok := typeNames[t]
	return ok
}

// TypeFromFilename resolves a cache type from its icon filename
// (without extension).
func TypeFromFilename(filename string) (Type, error) {
	if filename == "earthcache" {
		// the site serves the exact same earthcache icon under two
		// different names
		filename = string(TypeEarthcache)
	}
	t := Type(filename)
	if !t.valid() {
		return "", invalidf("cache type", "unknown icon filename %q", filename)
	}
	return t, nil
}

// TypeFromLabel resolves a cache type from its human-readable name,
// tolerating the " Cache" / " Geocache" suffixes the site sometimes
// appends.
func TypeFromLabel(label string) (Type, error) {
	name := strings.ReplaceAll(label, " Geocache", "")
	name = strings.ReplaceAll(name, " Cache", "")
	name = strings.ToLower(strings.TrimSpace(name))

	t, ok := typeLabels[name]
	if !ok {
		return "", invalidf("cache type", "unknown name %q", label)
	}
	return t, nil
}

// Size is the canonical container size.
type Size string

const (
	SizeMicro     Size = "micro"
	SizeSmall     Size = "small"
	SizeRegular   Size = "regular"
	SizeLarge     Size = "large"
	SizeNotChosen Size = "not chosen"
	SizeVirtual   Size = "virtual"
	SizeOther     Size = "other"
)

// icon filenames differ from the display values only where the value
// contains a space
var sizeFilenames = map[string]Size{
	"micro":      SizeMicro,
	"small":      SizeSmall,
	"regular":    SizeRegular,
	"large":      SizeLarge,
	"not_chosen": SizeNotChosen,
	"virtual":    SizeVirtual,
	"other":      SizeOther,
}

var sizeLabels = map[string]Size{
	string(SizeMicro):     SizeMicro,
	string(SizeSmall):     SizeSmall,
	string(SizeRegular):   SizeRegular,
	string(SizeLarge):     SizeLarge,
	string(SizeNotChosen): SizeNotChosen,
	string(SizeVirtual):   SizeVirtual,
	string(SizeOther):     SizeOther,
}

func (s Size) String() string { return string(s) }

func (s Size) valid() bool {
	_, ok := sizeLabels[string(s)]
	return ok
}

// SizeFromFilename resolves a container size from its icon filename
// (without extension).
func SizeFromFilename(filename string) (Size, error) {
	s, ok := sizeFilenames[filename]
	if !ok {
		return "", invalidf("cache size", "unknown icon filename %q", filename)
	}
	return s, nil
}

// SizeFromLabel resolves a container size from its human-readable name.
func SizeFromLabel(label string) (Size, error) {
	s, ok := sizeLabels[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", invalidf("cache size", "unknown name %q", label)
	}
	return s, nil
}
