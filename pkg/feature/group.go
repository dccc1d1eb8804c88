package feature

import "fmt"

// Group is the render category a way is classified into.
type Group int

const (
	None Group = iota
	Rail
	ServiceRoad
	TrafficRoad
	TrafficRoadMajor
	Path
	WaterLine
	Water
	WaterArea
	Building
	Park
)

var groupNames = []string{"None", "Rail", "ServiceRoad", "TrafficRoad", "TrafficRoadMajor", "Path", "WaterLine", "Water", "WaterArea", "Building", "Park"}

// GroupOrder is the draw order of the groups, back to front.
var GroupOrder = []Group{
	WaterArea,
	Water,
	Park,
	WaterLine,
	Building,
	Path,
	ServiceRoad,
	TrafficRoad,
	TrafficRoadMajor,
	Rail,
}

func (g Group) String() string {
	if g < None || int(g) >= len(groupNames) {
		return fmt.Sprintf("Group(%d)", int(g))
	}
	return groupNames[g]
}

// Valid reports whether g is one of the groups in GroupOrder.
func (g Group) Valid() bool {
	return g > None && int(g) < len(groupNames)
}

// ParseGroup returns the group with the given name.
func ParseGroup(name string) (Group, error) {
	for i, n := range groupNames {
		if i > 0 && n == name {
			return Group(i), nil
		}
	}
	return None, fmt.Errorf("unknown group %q", name)
}

func (g Group) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("cannot marshal group %d", int(g))
	}
	return []byte(g.String()), nil
}

func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
