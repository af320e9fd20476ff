package geocaching

import (
	"context"
	"log/slog"
	"strings"
)

// the fixed vocabulary of attribute keys the site publishes, keyed by
// the icon name, valued by the display description
var possibleAttributes = map[string]string{
	"abandonedbuilding": "Abandoned Structure",
	"available":         "Available at All Times",
	"bicycles":          "Bicycles",
	"boat":              "Boat",
	"campfires":         "Campfires",
	"camping":           "Camping Available",
	"cliff":             "Cliff / Falling Rocks",
	"climbing":          "Difficult Climbing",
	"cow":               "Watch for Livestock",
	"danger":            "Dangerous Area",
	"dangerousanimals":  "Dangerous Animals",
	"dogs":              "Dogs",
	"fee":               "Access or Parking Fee",
	"field_puzzle":      "Field Puzzle",
	"firstaid":          "Needs Maintenance",
	"flashlight":        "Flashlight Required",
	"food":              "Food Nearby",
	"frontyard":         "Front Yard(Private Residence)",
	"fuel":              "Fuel Nearby",
	"geotour":           "GeoTour Cache",
	"hike_long":         "Long Hike (+10km)",
	"hike_med":          "Medium Hike (1km-10km)",
	"hike_short":        "Short Hike (Less than 1km)",
	"hiking":            "Significant Hike",
	"horses":            "Horses",
	"hunting":           "Hunting",
	"jeeps":             "Off-Road Vehicles",
	"kids":              "Recommended for Kids",
	"landf":             "Lost And Found Tour",
	"mine":              "Abandoned Mines",
	"motorcycles":       "Motortcycles",
	"night":             "Recommended at Night",
	"nightcache":        "Night Cache",
	"onehour":           "Takes Less Than an Hour",
	"parking":           "Parking Available",
	"parkngrab":         "Park and Grab",
	"partnership":       "Partnership Cache",
	"phone":             "Telephone Nearby",
	"picnic":            "Picnic Tables Nearby",
	"poisonoak":         "Poisonous Plants",
	"public":            "Public Transportation",
	"quads":             "Quads",
	"rappelling":        "Climbing Gear",
	"restrooms":         "Public Restrooms Nearby",
	"rv":                "Truck Driver/RV",
	"s-tool":            "Special Tool Required",
	"scenic":            "Scenic View",
	"scuba":             "Scuba Gear",
	"seasonal":          "Seasonal Access",
	"skiis":             "Cross Country Skis",
	"snowmobiles":       "Snowmobiles",
	"snowshoes":         "Snowshoes",
	"stealth":           "Stealth Required",
	"stroller":          "Stroller Accessible",
	"swimming":          "May Require Swimming",
	"teamwork":          "Teamwork Required",
	"thorn":             "Thorns",
	"ticks":             "Ticks",
	"touristok":         "Tourist Friendly",
	"treeclimbing":      "Tree Climbing",
	"uv":                "UV Light Required",
	"wading":            "May Require Wading",
	"water":             "Drinking Water Nearby",
	"wheelchair":        "Wheelchair Accessible",
	"winter":            "Available During Winter",
	"wirelessbeacon":    "Wireless Beacon",
}

// AttributeDescription returns the display description for a known
// attribute key.
func AttributeDescription(key string) (string, bool) {
	description, ok := possibleAttributes[key]
	return description, ok
}

// normalizeAttributes lowercases and trims keys and drops any outside
// the fixed vocabulary with a warning. Unknown keys never fail the
// whole assignment.
func normalizeAttributes(ctx context.Context, attributes map[string]bool) map[string]bool {
	normalized := map[string]bool{}
	for key, allowed := range attributes {
		key = strings.ToLower(strings.TrimSpace(key))
		if _, ok := possibleAttributes[key]; !ok {
			slog.WarnContext(ctx, "unknown attribute, ignoring", "key", key)
			continue
		}
		normalized[key] = allowed
	}
	return normalized
}
