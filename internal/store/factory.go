package store

import (
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) Contacts() ContactStore {
	return newContactStore(s.queries)
}

func (s *Stores) Projects() ProjectStore {
	return newProjectStore(s.queries)
}

func (s *Stores) Finance() FinanceStore {
	return newFinanceStore(s.queries)
}

func (s *Stores) Calendar() CalendarStore {
	return newCalendarStore(s.queries)
}

func (s *Stores) Knowledge() KnowledgeStore {
	return newKnowledgeStore(s.queries)
}

func (s *Stores) Conversations() ConversationStore {
	return newConversationStore(s.queries)
}

func (s *Stores) PendingActions() PendingActionStore {
	return newPendingActionStore(s.queries)
}

func (s *Stores) Reminders() ReminderStore {
	return newReminderStore(s.queries)
}
