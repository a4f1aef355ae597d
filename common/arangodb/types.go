package arangodb

type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
	DirectionAny      Direction = "any"
)

// Node kinds stored in the relationship network.
const (
	KindPerson       = "person"
	KindOrganisation = "organisation"
	KindProject      = "project"
)

// Edge collections.
const (
	EdgeWorksAt    = "works_at"    // person -> organisation
	EdgeInvolvedIn = "involved_in" // person|organisation -> project
	EdgeKnows      = "knows"       // person -> person, weighted by shared interactions
)

// Node is a vertex in the network. Ref is the stable business key
// (contact ID, normalised organisation name, project code).
type Node struct {
	Ref   string
	Kind  string
	Name  string
	Email string
	Tags  []string
}

type Edge struct {
	Collection string
	FromRef    string
	FromKind   string
	ToRef      string
	ToKind     string
	Weight     int
	Properties map[string]any
}

type GraphNode struct {
	Ref   string `json:"ref"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

type GraphEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Type   string `json:"type"`
	Weight int    `json:"weight"`
}

type TraversalOptions struct {
	EdgeTypes []string
	Direction Direction
	MaxDepth  int
	Limit     int
}
