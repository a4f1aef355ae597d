package service_test

import (
	"context"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/arangodb"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/typesense"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/knowledgerepo"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type mockUserStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.User, error)
	upsertFn  func(ctx context.Context, user *model.User) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, store.ErrNotFound
}

func (m *mockUserStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

type mockSessionStore struct {
	getValidFn func(ctx context.Context, id int64) (*model.Session, error)
	createFn   func(ctx context.Context, session *model.Session) error
	deleted    []int64
}

func (m *mockSessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionStore) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

type mockContactStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.Contact, error)
	searchFn           func(ctx context.Context, query string, limit int) ([]model.Contact, error)
	listFn             func(ctx context.Context, limit, offset int) ([]model.Contact, error)
	countFn            func(ctx context.Context) (int64, error)
	listActivityFn     func(ctx context.Context, tag *string, limit int) ([]model.ContactActivity, error)
	notContactedFn     func(ctx context.Context, before time.Time, limit int) ([]model.Contact, error)
	logInteractionFn   func(ctx context.Context, interaction *model.Interaction) error
	listInteractionsFn func(ctx context.Context, contactID int64, limit int) ([]model.Interaction, error)
}

func (m *mockContactStore) GetByID(ctx context.Context, id int64) (*model.Contact, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockContactStore) Search(ctx context.Context, query string, limit int) ([]model.Contact, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockContactStore) List(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockContactStore) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockContactStore) ListActivity(ctx context.Context, tag *string, limit int) ([]model.ContactActivity, error) {
	if m.listActivityFn != nil {
		return m.listActivityFn(ctx, tag, limit)
	}
	return nil, nil
}

func (m *mockContactStore) ListNotContactedSince(ctx context.Context, before time.Time, limit int) ([]model.Contact, error) {
	if m.notContactedFn != nil {
		return m.notContactedFn(ctx, before, limit)
	}
	return nil, nil
}

func (m *mockContactStore) LogInteraction(ctx context.Context, interaction *model.Interaction) error {
	if m.logInteractionFn != nil {
		return m.logInteractionFn(ctx, interaction)
	}
	return nil
}

func (m *mockContactStore) ListInteractions(ctx context.Context, contactID int64, limit int) ([]model.Interaction, error) {
	if m.listInteractionsFn != nil {
		return m.listInteractionsFn(ctx, contactID, limit)
	}
	return nil, nil
}

func (m *mockContactStore) ListInteractionsSince(context.Context, time.Time) ([]model.Interaction, error) {
	return nil, nil
}

type mockProjectStore struct {
	listFn      func(ctx context.Context, status *model.ProjectStatus) ([]model.Project, error)
	getByCodeFn func(ctx context.Context, code string) (*model.Project, error)
	countFn     func(ctx context.Context) (map[model.ProjectStatus]int64, error)
	membersFn   func(ctx context.Context, projectID int64) ([]model.ProjectMember, error)
	linksFn     func(ctx context.Context) ([]model.ProjectLink, error)
}

func (m *mockProjectStore) List(ctx context.Context, status *model.ProjectStatus) ([]model.Project, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return nil, nil
}

func (m *mockProjectStore) GetByCode(ctx context.Context, code string) (*model.Project, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, store.ErrNotFound
}

func (m *mockProjectStore) CountByStatus(ctx context.Context) (map[model.ProjectStatus]int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return map[model.ProjectStatus]int64{}, nil
}

func (m *mockProjectStore) ListMembers(ctx context.Context, projectID int64) ([]model.ProjectMember, error) {
	if m.membersFn != nil {
		return m.membersFn(ctx, projectID)
	}
	return nil, nil
}

func (m *mockProjectStore) ListLinks(ctx context.Context) ([]model.ProjectLink, error) {
	if m.linksFn != nil {
		return m.linksFn(ctx)
	}
	return nil, nil
}

type mockFinanceStore struct {
	totalsByTypeFn    func(ctx context.Context, from, to time.Time) ([]model.TypeTotal, error)
	totalsByMonthFn   func(ctx context.Context, from, to time.Time) ([]model.MonthTotal, error)
	spendByCategoryFn func(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error)
	listTxFn          func(ctx context.Context, from, to time.Time, projectCode *string, limit int) ([]model.Transaction, error)
	projectTotalsFn   func(ctx context.Context, code string) ([]model.TypeTotal, error)
	outstandingFn     func(ctx context.Context, limit int) ([]model.Invoice, error)
	summariseFn       func(ctx context.Context, today time.Time) (*model.OutstandingSummary, error)
	createReceiptFn   func(ctx context.Context, receipt *model.Receipt) error
}

func (m *mockFinanceStore) TotalsByType(ctx context.Context, from, to time.Time) ([]model.TypeTotal, error) {
	if m.totalsByTypeFn != nil {
		return m.totalsByTypeFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockFinanceStore) TotalsByMonth(ctx context.Context, from, to time.Time) ([]model.MonthTotal, error) {
	if m.totalsByMonthFn != nil {
		return m.totalsByMonthFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockFinanceStore) SpendByCategory(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error) {
	if m.spendByCategoryFn != nil {
		return m.spendByCategoryFn(ctx, from, to, limit)
	}
	return nil, nil
}

func (m *mockFinanceStore) ListTransactions(ctx context.Context, from, to time.Time, projectCode *string, limit int) ([]model.Transaction, error) {
	if m.listTxFn != nil {
		return m.listTxFn(ctx, from, to, projectCode, limit)
	}
	return nil, nil
}

func (m *mockFinanceStore) ProjectTotals(ctx context.Context, code string) ([]model.TypeTotal, error) {
	if m.projectTotalsFn != nil {
		return m.projectTotalsFn(ctx, code)
	}
	return nil, nil
}

func (m *mockFinanceStore) ListOutstandingInvoices(ctx context.Context, limit int) ([]model.Invoice, error) {
	if m.outstandingFn != nil {
		return m.outstandingFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockFinanceStore) SummariseOutstanding(ctx context.Context, today time.Time) (*model.OutstandingSummary, error) {
	if m.summariseFn != nil {
		return m.summariseFn(ctx, today)
	}
	return &model.OutstandingSummary{}, nil
}

func (m *mockFinanceStore) CreateReceipt(ctx context.Context, receipt *model.Receipt) error {
	if m.createReceiptFn != nil {
		return m.createReceiptFn(ctx, receipt)
	}
	return nil
}

func (m *mockFinanceStore) ListReceipts(context.Context, int) ([]model.Receipt, error) {
	return nil, nil
}

type mockCalendarStore struct {
	upserted []model.CalendarEvent
	listFn   func(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)
	deleteFn func(ctx context.Context, from, to, syncedBefore time.Time) (int64, error)
}

func (m *mockCalendarStore) Upsert(_ context.Context, event *model.CalendarEvent) error {
	m.upserted = append(m.upserted, *event)
	return nil
}

func (m *mockCalendarStore) ListBetween(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockCalendarStore) DeleteStale(ctx context.Context, from, to, syncedBefore time.Time) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, from, to, syncedBefore)
	}
	return 0, nil
}

type mockKnowledgeStore struct {
	upserted     []model.KnowledgeNote
	getBySlugFn  func(ctx context.Context, slug string) (*model.KnowledgeNote, error)
	listRecentFn func(ctx context.Context, limit int) ([]model.KnowledgeNote, error)
	searchFn     func(ctx context.Context, query string, limit int) ([]model.KnowledgeNote, error)
	deleteFn     func(ctx context.Context, syncedBefore time.Time) (int64, error)
}

func (m *mockKnowledgeStore) Upsert(_ context.Context, note *model.KnowledgeNote) error {
	m.upserted = append(m.upserted, *note)
	return nil
}

func (m *mockKnowledgeStore) GetBySlug(ctx context.Context, slug string) (*model.KnowledgeNote, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, store.ErrNotFound
}

func (m *mockKnowledgeStore) ListRecent(ctx context.Context, limit int) ([]model.KnowledgeNote, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockKnowledgeStore) Search(ctx context.Context, query string, limit int) ([]model.KnowledgeNote, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockKnowledgeStore) DeleteUnsynced(ctx context.Context, syncedBefore time.Time) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, syncedBefore)
	}
	return 0, nil
}

func (m *mockKnowledgeStore) Count(context.Context) (int64, error) {
	return int64(len(m.upserted)), nil
}

// mockTxRunner runs fn directly against the provided stores.
type mockTxRunner struct {
	stores *mockStoreProvider
	calls  int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	return fn(m.stores)
}

type mockStoreProvider struct {
	contacts  store.ContactStore
	calendar  store.CalendarStore
	knowledge store.KnowledgeStore
	finance   store.FinanceStore
	reminders store.ReminderStore
}

func (m *mockStoreProvider) Contacts() store.ContactStore    { return m.contacts }
func (m *mockStoreProvider) Calendar() store.CalendarStore   { return m.calendar }
func (m *mockStoreProvider) Knowledge() store.KnowledgeStore { return m.knowledge }
func (m *mockStoreProvider) Finance() store.FinanceStore     { return m.finance }
func (m *mockStoreProvider) Reminders() store.ReminderStore  { return m.reminders }

type mockGraph struct {
	truncated  bool
	nodes      []arangodb.Node
	edges      []arangodb.Edge
	traverseFn func(ctx context.Context, kind, ref string, opts arangodb.TraversalOptions) ([]arangodb.GraphNode, []arangodb.GraphEdge, error)
}

func (m *mockGraph) EnsureDatabase(context.Context) error    { return nil }
func (m *mockGraph) EnsureCollections(context.Context) error { return nil }
func (m *mockGraph) EnsureGraph(context.Context) error       { return nil }
func (m *mockGraph) Close() error                            { return nil }

func (m *mockGraph) TruncateCollections(context.Context) error {
	m.truncated = true
	return nil
}

func (m *mockGraph) IngestNodes(_ context.Context, nodes []arangodb.Node) error {
	m.nodes = append(m.nodes, nodes...)
	return nil
}

func (m *mockGraph) IngestEdges(_ context.Context, edges []arangodb.Edge) error {
	m.edges = append(m.edges, edges...)
	return nil
}

func (m *mockGraph) Traverse(ctx context.Context, kind, ref string, opts arangodb.TraversalOptions) ([]arangodb.GraphNode, []arangodb.GraphEdge, error) {
	if m.traverseFn != nil {
		return m.traverseFn(ctx, kind, ref, opts)
	}
	return nil, nil, nil
}

type mockSearch struct {
	indexed  []typesense.Document
	searchFn func(ctx context.Context, query string, limit int) ([]typesense.Hit, error)
}

func (m *mockSearch) EnsureCollection(context.Context) error { return nil }

func (m *mockSearch) ReplaceAll(_ context.Context, docs []typesense.Document) error {
	m.indexed = docs
	return nil
}

func (m *mockSearch) Search(ctx context.Context, query string, limit int) ([]typesense.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

type mockWiki struct {
	files    []knowledgerepo.File
	contents map[string]string
}

func (m *mockWiki) ListMarkdown(context.Context) ([]knowledgerepo.File, error) {
	return m.files, nil
}

func (m *mockWiki) ReadFile(_ context.Context, p string) ([]byte, error) {
	return []byte(m.contents[p]), nil
}

func (m *mockWiki) Root() string { return "wiki" }

type mockGoogleCalendar struct {
	listFn     func(ctx context.Context, from, to time.Time) ([]gcalendar.Event, error)
	freeBusyFn func(ctx context.Context, from, to time.Time) ([]gcalendar.Interval, error)
}

func (m *mockGoogleCalendar) ListEvents(ctx context.Context, from, to time.Time) ([]gcalendar.Event, error) {
	if m.listFn != nil {
		return m.listFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockGoogleCalendar) CreateEvent(_ context.Context, ev gcalendar.NewEvent) (*gcalendar.Event, error) {
	return &gcalendar.Event{ID: ev.ID, Summary: ev.Summary, Start: ev.Start, End: ev.End}, nil
}

func (m *mockGoogleCalendar) FreeBusy(ctx context.Context, from, to time.Time) ([]gcalendar.Interval, error) {
	if m.freeBusyFn != nil {
		return m.freeBusyFn(ctx, from, to)
	}
	return nil, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T {
	return &v
}

type mockActionStore struct {
	store.PendingActionStore
	open   []model.PendingAction
	counts map[model.ActionStatus]int64
}

func (m *mockActionStore) ListOpen(context.Context, *int64) ([]model.PendingAction, error) {
	return m.open, nil
}

func (m *mockActionStore) CountByStatus(context.Context) (map[model.ActionStatus]int64, error) {
	return m.counts, nil
}

type mockReminderStore struct {
	store.ReminderStore
	scheduled []model.Reminder
}

func (m *mockReminderStore) ListScheduled(context.Context, int) ([]model.Reminder, error) {
	return m.scheduled, nil
}
