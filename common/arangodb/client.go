package arangodb

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
)

var ErrNotFound = errors.New("document not found")

const graphName = "network"

var (
	nodeCollections = []string{"people", "organisations", "projects"}
	edgeCollections = []string{EdgeWorksAt, EdgeInvolvedIn, EdgeKnows}
)

// Client stores the relationship network between contacts, the
// organisations they work for and the projects they are involved in.
type Client interface {
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context) error
	EnsureGraph(ctx context.Context) error

	// Rebuild operations, used by the network sync job.
	TruncateCollections(ctx context.Context) error
	IngestNodes(ctx context.Context, nodes []Node) error
	IngestEdges(ctx context.Context, edges []Edge) error

	// Traverse returns everything reachable from the start node.
	Traverse(ctx context.Context, kind, ref string, opts TraversalOptions) ([]GraphNode, []GraphEdge, error)

	Close() error
}

type Config struct {
	URL      string
	Username string
	Password string
	Database string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("arangodb URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("arangodb username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("arangodb database name is required")
	}
	return nil
}

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          Config
}

var _ Client = &client{}

func New(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arangodb config: %w", err)
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	c := &client{
		conn:         conn,
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}

	if err := c.EnsureDatabase(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		if _, err = c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil); err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db

	return nil
}

func (c *client) EnsureCollections(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	for _, name := range nodeCollections {
		if err := c.ensureCollection(ctx, name, false); err != nil {
			return err
		}
	}
	for _, name := range edgeCollections {
		if err := c.ensureCollection(ctx, name, true); err != nil {
			return err
		}
	}

	return nil
}

func (c *client) ensureCollection(ctx context.Context, name string, isEdge bool) error {
	exists, err := c.db.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s exists: %w", name, err)
	}
	if exists {
		return nil
	}

	colType := arangodb.CollectionTypeDocument
	if isEdge {
		colType = arangodb.CollectionTypeEdge
	}
	if _, err = c.db.CreateCollectionV2(ctx, name, &arangodb.CreateCollectionPropertiesV2{Type: &colType}); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	slog.InfoContext(ctx, "arangodb collection created",
		"collection", name,
		"is_edge", isEdge)

	return nil
}

func (c *client) EnsureGraph(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	exists, err := c.db.GraphExists(ctx, graphName)
	if err != nil {
		return fmt.Errorf("check graph exists: %w", err)
	}
	if exists {
		return nil
	}

	graphDef := &arangodb.GraphDefinition{
		Name: graphName,
		EdgeDefinitions: []arangodb.EdgeDefinition{
			{Collection: EdgeWorksAt, From: []string{"people"}, To: []string{"organisations"}},
			{Collection: EdgeInvolvedIn, From: []string{"people", "organisations"}, To: []string{"projects"}},
			{Collection: EdgeKnows, From: []string{"people"}, To: []string{"people"}},
		},
	}

	if _, err = c.db.CreateGraph(ctx, graphName, graphDef, nil); err != nil {
		return fmt.Errorf("create graph: %w", err)
	}

	slog.InfoContext(ctx, "arangodb graph created", "graph", graphName)
	return nil
}

func (c *client) TruncateCollections(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	start := time.Now()
	all := append(append([]string{}, nodeCollections...), edgeCollections...)

	for _, name := range all {
		col, err := c.db.GetCollection(ctx, name, nil)
		if err != nil {
			return fmt.Errorf("get collection %s: %w", name, err)
		}
		if err := col.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate collection %s: %w", name, err)
		}
	}

	slog.InfoContext(ctx, "arangodb collections truncated",
		"collections", len(all),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

// IngestNodes inserts node documents grouped by kind. Documents whose key
// already exists are skipped, so callers truncate first for a clean rebuild.
func (c *client) IngestNodes(ctx context.Context, nodes []Node) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	byCollection := make(map[string][]map[string]any)
	for _, n := range nodes {
		col := CollectionForKind(n.Kind)
		byCollection[col] = append(byCollection[col], map[string]any{
			"_key":  makeKey(n.Ref),
			"ref":   n.Ref,
			"kind":  n.Kind,
			"name":  n.Name,
			"email": n.Email,
			"tags":  n.Tags,
		})
	}

	for name, docs := range byCollection {
		if err := c.createDocuments(ctx, name, docs); err != nil {
			return err
		}
	}
	return nil
}

// IngestEdges inserts edges into their collections. Edge keys derive from
// both endpoints, so the same relationship is stored once.
func (c *client) IngestEdges(ctx context.Context, edges []Edge) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	byCollection := make(map[string][]map[string]any)
	for _, e := range edges {
		doc := map[string]any{
			"_key":   makeEdgeKey(e.FromRef, e.ToRef),
			"_from":  VertexID(e.FromKind, e.FromRef),
			"_to":    VertexID(e.ToKind, e.ToRef),
			"weight": e.Weight,
		}
		for k, v := range e.Properties {
			doc[k] = v
		}
		byCollection[e.Collection] = append(byCollection[e.Collection], doc)
	}

	for name, docs := range byCollection {
		if err := c.createDocuments(ctx, name, docs); err != nil {
			return err
		}
	}
	return nil
}

func (c *client) createDocuments(ctx context.Context, collection string, docs []map[string]any) error {
	if len(docs) == 0 {
		return nil
	}

	start := time.Now()
	col, err := c.db.GetCollection(ctx, collection, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", collection, err)
	}

	reader, err := col.CreateDocuments(ctx, docs)
	if err != nil {
		return fmt.Errorf("create documents in %s: %w", collection, err)
	}

	// Drain responses; duplicate-key errors are per document and ignored.
	for {
		if _, readErr := reader.Read(); readErr != nil {
			break
		}
	}

	slog.DebugContext(ctx, "arangodb documents ingested",
		"collection", collection,
		"count", len(docs),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (c *client) Traverse(ctx context.Context, kind, ref string, opts TraversalOptions) ([]GraphNode, []GraphEdge, error) {
	if c.db == nil {
		return nil, nil, fmt.Errorf("database not initialized")
	}

	start := time.Now()

	depth := opts.MaxDepth
	if depth <= 0 {
		depth = 2
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 200
	}

	query := fmt.Sprintf(`
		FOR v, e, p IN 1..@depth %s @start GRAPH "%s" %s
			LIMIT @limit
			RETURN {
				vertex: { ref: v.ref, kind: v.kind, name: v.name },
				edge: { from: e._from, to: e._to, type: PARSE_IDENTIFIER(e._id).collection, weight: e.weight },
				depth: LENGTH(p.edges)
			}
	`, directionKeyword(opts.Direction), graphName, edgeFilter(opts.EdgeTypes))

	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"start": VertexID(kind, ref),
			"depth": depth,
			"limit": limit,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("execute traversal: %w", err)
	}
	defer cursor.Close()

	nodeMap := make(map[string]GraphNode)
	var edges []GraphEdge

	for cursor.HasMore() {
		var doc struct {
			Vertex GraphNode `json:"vertex"`
			Edge   struct {
				From   string `json:"from"`
				To     string `json:"to"`
				Type   string `json:"type"`
				Weight int    `json:"weight"`
			} `json:"edge"`
			Depth int `json:"depth"`
		}
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, nil, fmt.Errorf("read document: %w", err)
		}

		if doc.Vertex.Ref != "" {
			if existing, ok := nodeMap[doc.Vertex.Ref]; !ok || doc.Depth < existing.Depth {
				doc.Vertex.Depth = doc.Depth
				nodeMap[doc.Vertex.Ref] = doc.Vertex
			}
		}
		if doc.Edge.From != "" {
			edges = append(edges, GraphEdge{
				From:   doc.Edge.From,
				To:     doc.Edge.To,
				Type:   doc.Edge.Type,
				Weight: doc.Edge.Weight,
			})
		}
	}

	nodes := make([]GraphNode, 0, len(nodeMap))
	for _, n := range nodeMap {
		nodes = append(nodes, n)
	}

	slog.DebugContext(ctx, "arangodb traversal completed",
		"start", ref,
		"depth", depth,
		"nodes", len(nodes),
		"edges", len(edges),
		"duration_ms", time.Since(start).Milliseconds())

	return nodes, edges, nil
}

func directionKeyword(d Direction) string {
	switch d {
	case DirectionInbound:
		return "INBOUND"
	case DirectionOutbound:
		return "OUTBOUND"
	default:
		return "ANY"
	}
}

func edgeFilter(types []string) string {
	if len(types) == 0 {
		return ""
	}
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return fmt.Sprintf("OPTIONS { edgeCollections: [%s] }", strings.Join(quoted, ", "))
}

// CollectionForKind maps a node kind to its document collection.
func CollectionForKind(kind string) string {
	switch kind {
	case KindOrganisation:
		return "organisations"
	case KindProject:
		return "projects"
	default:
		return "people"
	}
}

// VertexID builds the "_id" of a node.
func VertexID(kind, ref string) string {
	return CollectionForKind(kind) + "/" + makeKey(ref)
}

func makeKey(ref string) string {
	hash := md5.Sum([]byte(strings.ToLower(ref)))
	return hex.EncodeToString(hash[:])[:16]
}

func makeEdgeKey(from, to string) string {
	hash := md5.Sum([]byte(strings.ToLower(from) + "->" + strings.ToLower(to)))
	return hex.EncodeToString(hash[:])[:16]
}
