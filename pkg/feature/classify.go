package feature

// Value sets follow the feature filters of the iD editor.
var (
	majorTrafficRoads = newValueSet("motorway", "motorway_link", "trunk", "trunk_link", "primary", "primary_link")
	trafficRoads      = newValueSet("secondary", "secondary_link", "tertiary", "tertiary_link", "residential", "unclassified", "living_street", "busway")
	serviceRoads      = newValueSet("service", "road", "track")
	paths             = newValueSet("path", "footway", "cycleway", "bridleway", "steps", "pedestrian")
	parkLeisure       = newValueSet("garden", "golf_course", "nature_reserve", "park", "pitch", "track")
	parkLanduse       = newValueSet("flowerbed", "forest", "grass", "recreation_ground", "village_green")
	waterNatural      = newValueSet("water", "coastline", "bay")
	waterLanduse      = newValueSet("pond", "basin", "reservoir", "salt_pond")
	buildingParking   = newValueSet("multi-storey", "sheds", "carports", "garage_boxes")
)

func IsBuilding(tags Tags) bool {
	return (tags.Has("building") && tags["building"] != "no") || buildingParking.has(tags["parking"])
}

func IsWaterLine(tags Tags) bool {
	return tags.Has("waterway")
}

func IsWater(tags Tags) bool {
	return waterNatural.has(tags["natural"]) || waterLanduse.has(tags["landuse"])
}

func IsPath(tags Tags) bool {
	return paths.has(tags["highway"])
}

func IsTrafficRoadMajor(tags Tags) bool {
	return majorTrafficRoads.has(tags["highway"])
}

func IsTrafficRoad(tags Tags) bool {
	return trafficRoads.has(tags["highway"])
}

func IsServiceRoad(tags Tags) bool {
	return serviceRoads.has(tags["highway"])
}

func IsPark(tags Tags) bool {
	return parkLeisure.has(tags["leisure"]) || parkLanduse.has(tags["landuse"]) || tags["natural"] == "wood"
}

// IsRail matches railway features unless the way is also tagged as a road
// or path, in which case the road rules take it.
func IsRail(tags Tags) bool {
	if !tags.Has("railway") && tags["landuse"] != "railway" {
		return false
	}
	return !(IsTrafficRoad(tags) || IsTrafficRoadMajor(tags) || IsServiceRoad(tags) || IsPath(tags))
}

// Rule maps a tag predicate to the group it resolves to.
type Rule struct {
	Name    string
	Matches func(Tags) bool
	Resolve func(partOfRelation bool) Group
}

func always(g Group) func(bool) Group {
	return func(bool) Group { return g }
}

// Rules lists the classification rules in priority order.
var Rules = []Rule{
	{"rail", IsRail, always(Rail)},
	{"service_road", IsServiceRoad, always(ServiceRoad)},
	{"traffic_road", IsTrafficRoad, always(TrafficRoad)},
	{"traffic_road_major", IsTrafficRoadMajor, always(TrafficRoadMajor)},
	{"path", IsPath, always(Path)},
	{"water_line", IsWaterLine, always(WaterLine)},
	{"water", IsWater, func(partOfRelation bool) Group {
		if partOfRelation {
			return WaterArea
		}
		return Water
	}},
	{"building", IsBuilding, always(Building)},
	{"park", IsPark, always(Park)},
}

// Classify returns the group of a way with the given tags, or None when no
// rule matches. partOfRelation tells whether the way is a member of some
// relation; it separates water areas from plain water bodies.
func Classify(tags Tags, partOfRelation bool) Group {
	for _, r := range Rules {
		if r.Matches(tags) {
			return r.Resolve(partOfRelation)
		}
	}
	return None
}
