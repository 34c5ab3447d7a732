package model

// RouteItem is one hop of a plotted or travelled route between star
// systems, as tracked by the route tracker (C8).
type RouteItem struct {
	SystemName            string
	SystemAddress         int64
	StarPosition          Coordinate
	StarClass             string
	DistanceFromPrevious  float64
	Visited               bool
}
