package ephemeris

// Body identifies a celestial body the engine can compute.
type Body string

const (
	Sun      Body = "Sun"
	Moon     Body = "Moon"
	Mercury  Body = "Mercury"
	Venus    Body = "Venus"
	Mars     Body = "Mars"
	Jupiter  Body = "Jupiter"
	Saturn   Body = "Saturn"
	Uranus   Body = "Uranus"
	Neptune  Body = "Neptune"
	Pluto    Body = "Pluto"
	TrueNode Body = "TrueNode"
	MeanNode Body = "MeanNode"
)

// Bodies lists every supported body in conventional order.
var Bodies = []Body{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn,
	Uranus, Neptune, Pluto, TrueNode, MeanNode,
}

var bodySet = func() map[Body]struct{} {
	m := make(map[Body]struct{}, len(Bodies))
	for _, b := range Bodies {
		m[b] = struct{}{}
	}
	return m
}()

// ParseBody validates a body name. Names are case-sensitive, matching the
// wire format ("Sun", "TrueNode", ...).
func ParseBody(name string) (Body, error) {
	b := Body(name)
	if _, ok := bodySet[b]; !ok {
		return "", &UnsupportedBodyError{Name: name}
	}
	return b, nil
}
