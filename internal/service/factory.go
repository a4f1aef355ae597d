package service

import (
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/arangodb"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/typesense"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/knowledgerepo"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// Clients holds the optional external clients. Leave a field nil when the
// integration is not configured.
type Clients struct {
	Graph    arangodb.Client
	Search   typesense.Client
	Wiki     knowledgerepo.Repo
	Calendar gcalendar.Client
}

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	clients  Clients
	cfg      config.Config
	loc      *time.Location
	now      func() time.Time
}

func NewServices(stores *store.Stores, txRunner TxRunner, clients Clients, cfg config.Config) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		clients:  clients,
		cfg:      cfg,
		loc:      cfg.Location(),
		now:      time.Now,
	}
}

func (s *Services) Location() *time.Location {
	return s.loc
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions(), s.cfg.WorkOS)
}

func (s *Services) Contacts() ContactService {
	return NewContactService(s.stores.Contacts(), s.stores.Projects(), s.txRunner, s.clients.Graph, s.now)
}

func (s *Services) Projects() ProjectService {
	return NewProjectService(s.stores.Projects(), s.Finance())
}

func (s *Services) Finance() FinanceService {
	return NewFinanceService(s.stores.Finance(), s.stores.Projects(), s.loc, s.now)
}

func (s *Services) Calendar() CalendarService {
	return NewCalendarService(
		s.stores.Calendar(),
		s.clients.Calendar,
		s.loc,
		WorkingHours{Start: s.cfg.Org.WorkdayStart, End: s.cfg.Org.WorkdayEnd},
		s.now,
	)
}

func (s *Services) Knowledge() KnowledgeService {
	return NewKnowledgeService(s.stores.Knowledge(), s.clients.Search, s.clients.Wiki)
}

func (s *Services) Overview() OverviewService {
	return NewOverviewService(OverviewSources{
		Contacts:        s.stores.Contacts(),
		Projects:        s.stores.Projects(),
		Finance:         s.stores.Finance(),
		Actions:         s.stores.PendingActions(),
		Knowledge:       s.stores.Knowledge(),
		ContactService:  s.Contacts(),
		FinanceService:  s.Finance(),
		CalendarService: s.Calendar(),
	}, s.loc, s.now)
}

func (s *Services) Briefing() BriefingService {
	return NewBriefingService(
		s.Calendar(),
		s.Contacts(),
		s.Finance(),
		s.stores.Reminders(),
		s.stores.PendingActions(),
		s.loc,
		s.now,
	)
}
