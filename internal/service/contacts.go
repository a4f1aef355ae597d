package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/arangodb"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// Relationship health thresholds in days since last contact.
const (
	healthyWithinDays = 30
	coolingWithinDays = 90
)

type ContactDetail struct {
	Contact      model.Contact            `json:"contact"`
	Health       model.RelationshipHealth `json:"health"`
	Interactions []model.Interaction      `json:"interactions"`
	Projects     []model.ProjectLink      `json:"projects"`
}

type HealthReport struct {
	Counts   map[model.RelationshipStatus]int `json:"counts"`
	Contacts []model.RelationshipHealth       `json:"contacts"`
}

type FollowUp struct {
	model.Contact
	DaysSinceContact *int `json:"days_since_contact,omitempty"`
}

type Network struct {
	ContactID int64                `json:"contact_id"`
	Nodes     []arangodb.GraphNode `json:"nodes"`
	Edges     []arangodb.GraphEdge `json:"edges"`
}

type NetworkSyncResult struct {
	People        int `json:"people"`
	Organisations int `json:"organisations"`
	Projects      int `json:"projects"`
	Edges         int `json:"edges"`
}

type ContactList struct {
	Contacts []model.Contact `json:"contacts"`
	Total    int64           `json:"total"`
}

type ContactService interface {
	List(ctx context.Context, query string, limit, offset int) (*ContactList, error)
	Get(ctx context.Context, contactID int64) (*ContactDetail, error)
	Health(ctx context.Context, tag *string, status *model.RelationshipStatus, limit int) (*HealthReport, error)
	Followups(ctx context.Context, staleDays, limit int) ([]FollowUp, error)
	LogInteraction(ctx context.Context, interaction *model.Interaction) error
	Network(ctx context.Context, contactID int64, depth int) (*Network, error)
	SyncNetwork(ctx context.Context) (*NetworkSyncResult, error)
}

type contactService struct {
	contacts store.ContactStore
	projects store.ProjectStore
	txRunner TxRunner
	graph    arangodb.Client // nil when ArangoDB is not configured
	now      func() time.Time
}

func NewContactService(
	contacts store.ContactStore,
	projects store.ProjectStore,
	txRunner TxRunner,
	graph arangodb.Client,
	now func() time.Time,
) ContactService {
	return &contactService{
		contacts: contacts,
		projects: projects,
		txRunner: txRunner,
		graph:    graph,
		now:      now,
	}
}

func (s *contactService) List(ctx context.Context, query string, limit, offset int) (*ContactList, error) {
	if q := strings.TrimSpace(query); q != "" {
		contacts, err := s.contacts.Search(ctx, q, limit)
		if err != nil {
			return nil, fmt.Errorf("searching contacts: %w", err)
		}
		return &ContactList{Contacts: contacts, Total: int64(len(contacts))}, nil
	}

	contacts, err := s.contacts.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	total, err := s.contacts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting contacts: %w", err)
	}
	return &ContactList{Contacts: contacts, Total: total}, nil
}

func (s *contactService) Get(ctx context.Context, contactID int64) (*ContactDetail, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	interactions, err := s.contacts.ListInteractions(ctx, contactID, 20)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	links, err := s.projects.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing project links: %w", err)
	}

	projects := []model.ProjectLink{}
	for _, l := range links {
		if l.ContactID == contactID {
			projects = append(projects, l)
		}
	}

	now := s.now()
	recent := 0
	for _, i := range interactions {
		if now.Sub(i.OccurredAt) <= 90*24*time.Hour {
			recent++
		}
	}

	activity := model.ContactActivity{
		ContactID:       contact.ID,
		FullName:        contact.FullName,
		Email:           contact.Email,
		Company:         contact.Company,
		Tags:            contact.Tags,
		LastContactedAt: contact.LastContactedAt,
		Interactions90d: recent,
	}

	return &ContactDetail{
		Contact:      *contact,
		Health:       ScoreHealth(activity, now),
		Interactions: interactions,
		Projects:     projects,
	}, nil
}

func (s *contactService) Health(ctx context.Context, tag *string, status *model.RelationshipStatus, limit int) (*HealthReport, error) {
	activity, err := s.contacts.ListActivity(ctx, tag, 500)
	if err != nil {
		return nil, fmt.Errorf("listing contact activity: %w", err)
	}

	now := s.now()
	report := &HealthReport{
		Counts: map[model.RelationshipStatus]int{
			model.RelationshipHealthy: 0,
			model.RelationshipCooling: 0,
			model.RelationshipCold:    0,
			model.RelationshipUnknown: 0,
		},
		Contacts: []model.RelationshipHealth{},
	}
	for _, a := range activity {
		h := ScoreHealth(a, now)
		report.Counts[h.Status]++
		if status != nil && h.Status != *status {
			continue
		}
		report.Contacts = append(report.Contacts, h)
	}

	// Weakest relationships first; they are the ones that need attention.
	sort.SliceStable(report.Contacts, func(i, j int) bool {
		return report.Contacts[i].Score < report.Contacts[j].Score
	})
	if limit > 0 && len(report.Contacts) > limit {
		report.Contacts = report.Contacts[:limit]
	}
	return report, nil
}

func (s *contactService) Followups(ctx context.Context, staleDays, limit int) ([]FollowUp, error) {
	if staleDays <= 0 {
		staleDays = healthyWithinDays
	}
	now := s.now()
	contacts, err := s.contacts.ListNotContactedSince(ctx, now.AddDate(0, 0, -staleDays), limit)
	if err != nil {
		return nil, fmt.Errorf("listing stale contacts: %w", err)
	}

	out := make([]FollowUp, len(contacts))
	for i, c := range contacts {
		out[i] = FollowUp{Contact: c, DaysSinceContact: daysSince(c.LastContactedAt, now)}
	}
	return out, nil
}

func (s *contactService) LogInteraction(ctx context.Context, interaction *model.Interaction) error {
	if strings.TrimSpace(interaction.Summary) == "" {
		return fmt.Errorf("%w: interaction summary is required", ErrInvalidInput)
	}
	if interaction.Kind == "" {
		interaction.Kind = model.InteractionNote
	}
	if interaction.OccurredAt.IsZero() {
		interaction.OccurredAt = s.now()
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		return stores.Contacts().LogInteraction(ctx, interaction)
	})
	if err != nil {
		return fmt.Errorf("logging interaction: %w", err)
	}

	slog.InfoContext(ctx, "interaction logged",
		"contact_id", interaction.ContactID,
		"kind", interaction.Kind)
	return nil
}

func (s *contactService) Network(ctx context.Context, contactID int64, depth int) (*Network, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("relationship network: %w", ErrNotConfigured)
	}
	if depth <= 0 || depth > 3 {
		depth = 2
	}

	nodes, edges, err := s.graph.Traverse(ctx, arangodb.KindPerson, strconv.FormatInt(contactID, 10), arangodb.TraversalOptions{
		Direction: arangodb.DirectionAny,
		MaxDepth:  depth,
		Limit:     200,
	})
	if err != nil {
		if errors.Is(err, arangodb.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("traversing network: %w", err)
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Depth != nodes[j].Depth {
			return nodes[i].Depth < nodes[j].Depth
		}
		return nodes[i].Name < nodes[j].Name
	})
	if nodes == nil {
		nodes = []arangodb.GraphNode{}
	}
	if edges == nil {
		edges = []arangodb.GraphEdge{}
	}
	return &Network{ContactID: contactID, Nodes: nodes, Edges: edges}, nil
}

// SyncNetwork rebuilds the relationship graph from contacts, their companies
// and project membership. People who share a project are linked by a knows
// edge weighted by the number of shared projects.
func (s *contactService) SyncNetwork(ctx context.Context) (*NetworkSyncResult, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("relationship network: %w", ErrNotConfigured)
	}
	start := time.Now()

	var contacts []model.Contact
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		page, err := s.contacts.List(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("listing contacts: %w", err)
		}
		contacts = append(contacts, page...)
		if len(page) < pageSize {
			break
		}
	}
	links, err := s.projects.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing project links: %w", err)
	}

	nodes, edges, result := BuildNetwork(contacts, links)

	if err := s.graph.EnsureCollections(ctx); err != nil {
		return nil, err
	}
	if err := s.graph.EnsureGraph(ctx); err != nil {
		return nil, err
	}
	if err := s.graph.TruncateCollections(ctx); err != nil {
		return nil, err
	}
	if err := s.graph.IngestNodes(ctx, nodes); err != nil {
		return nil, err
	}
	if err := s.graph.IngestEdges(ctx, edges); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "relationship network synced",
		"people", result.People,
		"organisations", result.Organisations,
		"projects", result.Projects,
		"edges", result.Edges,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// BuildNetwork converts contacts and project links into graph nodes and edges.
func BuildNetwork(contacts []model.Contact, links []model.ProjectLink) ([]arangodb.Node, []arangodb.Edge, *NetworkSyncResult) {
	var nodes []arangodb.Node
	var edges []arangodb.Edge
	result := &NetworkSyncResult{}

	known := make(map[int64]bool, len(contacts))
	orgs := map[string]bool{}
	for _, c := range contacts {
		known[c.ID] = true
		person := arangodb.Node{
			Ref:  strconv.FormatInt(c.ID, 10),
			Kind: arangodb.KindPerson,
			Name: c.FullName,
			Tags: c.Tags,
		}
		if c.Email != nil {
			person.Email = *c.Email
		}
		nodes = append(nodes, person)
		result.People++

		if c.Company == nil || strings.TrimSpace(*c.Company) == "" {
			continue
		}
		orgRef := OrganisationRef(*c.Company)
		if !orgs[orgRef] {
			orgs[orgRef] = true
			nodes = append(nodes, arangodb.Node{Ref: orgRef, Kind: arangodb.KindOrganisation, Name: strings.TrimSpace(*c.Company)})
			result.Organisations++
		}
		edges = append(edges, arangodb.Edge{
			Collection: arangodb.EdgeWorksAt,
			FromRef:    person.Ref,
			FromKind:   arangodb.KindPerson,
			ToRef:      orgRef,
			ToKind:     arangodb.KindOrganisation,
			Weight:     1,
		})
	}

	projects := map[string]bool{}
	members := map[string][]int64{}
	for _, l := range links {
		if !known[l.ContactID] {
			continue
		}
		if !projects[l.ProjectCode] {
			projects[l.ProjectCode] = true
			nodes = append(nodes, arangodb.Node{Ref: l.ProjectCode, Kind: arangodb.KindProject, Name: l.ProjectName})
			result.Projects++
		}
		edge := arangodb.Edge{
			Collection: arangodb.EdgeInvolvedIn,
			FromRef:    strconv.FormatInt(l.ContactID, 10),
			FromKind:   arangodb.KindPerson,
			ToRef:      l.ProjectCode,
			ToKind:     arangodb.KindProject,
			Weight:     1,
		}
		if l.Role != nil {
			edge.Properties = map[string]any{"role": *l.Role}
		}
		edges = append(edges, edge)
		members[l.ProjectCode] = append(members[l.ProjectCode], l.ContactID)
	}

	type pair struct{ a, b int64 }
	shared := map[pair]int{}
	for _, ids := range members {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a == b {
					continue
				}
				if a > b {
					a, b = b, a
				}
				shared[pair{a, b}]++
			}
		}
	}
	pairs := make([]pair, 0, len(shared))
	for p := range shared {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})
	for _, p := range pairs {
		edges = append(edges, arangodb.Edge{
			Collection: arangodb.EdgeKnows,
			FromRef:    strconv.FormatInt(p.a, 10),
			FromKind:   arangodb.KindPerson,
			ToRef:      strconv.FormatInt(p.b, 10),
			ToKind:     arangodb.KindPerson,
			Weight:     shared[p],
		})
	}

	result.Edges = len(edges)
	return nodes, edges, result
}

// OrganisationRef normalises a company name into a graph key.
func OrganisationRef(company string) string {
	return strings.Join(strings.Fields(strings.ToLower(company)), " ")
}

// ScoreHealth buckets a relationship by recency and scores it 0-100: up to 70
// points for recency, decaying linearly to zero at 180 days, and 3 points per
// interaction in the last 90 days up to 30.
func ScoreHealth(a model.ContactActivity, now time.Time) model.RelationshipHealth {
	h := model.RelationshipHealth{ContactActivity: a}
	if h.Tags == nil {
		h.Tags = []string{}
	}

	days := daysSince(a.LastContactedAt, now)
	if days == nil {
		h.Status = model.RelationshipUnknown
		h.Score = frequencyScore(a.Interactions90d)
		return h
	}
	h.DaysSinceContact = days

	switch {
	case *days <= healthyWithinDays:
		h.Status = model.RelationshipHealthy
	case *days <= coolingWithinDays:
		h.Status = model.RelationshipCooling
	default:
		h.Status = model.RelationshipCold
	}

	recency := 70 * (1 - float64(*days)/180)
	if recency < 0 {
		recency = 0
	}
	score := int(math.Round(recency)) + frequencyScore(a.Interactions90d)
	if score > 100 {
		score = 100
	}
	h.Score = score
	return h
}

func frequencyScore(interactions int) int {
	if interactions > 10 {
		interactions = 10
	}
	if interactions < 0 {
		interactions = 0
	}
	return interactions * 3
}

func daysSince(t *time.Time, now time.Time) *int {
	if t == nil || t.IsZero() {
		return nil
	}
	d := int(now.Sub(*t).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return &d
}
