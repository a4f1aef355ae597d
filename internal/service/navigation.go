package service

// NavItem is one entry of the dashboard menu. Badge keys are filled in by
// the handler from live counts.
type NavItem struct {
	Label    string    `json:"label"`
	Href     string    `json:"href"`
	Icon     string    `json:"icon"`
	BadgeKey string    `json:"badge_key,omitempty"`
	Badge    int       `json:"badge,omitempty"`
	Children []NavItem `json:"children,omitempty"`
}

type NavSection struct {
	Title string    `json:"title"`
	Items []NavItem `json:"items"`
}

// Badge keys.
const (
	BadgePendingActions  = "pending_actions"
	BadgeOverdueInvoices = "overdue_invoices"
	BadgeFollowups       = "followups"
)

// Navigation returns the dashboard menu with badges applied. Missing badge
// counts render as no badge.
func Navigation(badges map[string]int) []NavSection {
	sections := []NavSection{
		{
			Title: "Today",
			Items: []NavItem{
				{Label: "Overview", Href: "/", Icon: "layout-dashboard"},
				{Label: "Briefing", Href: "/briefing", Icon: "sunrise"},
				{Label: "Calendar", Href: "/calendar", Icon: "calendar"},
			},
		},
		{
			Title: "Relationships",
			Items: []NavItem{
				{Label: "Contacts", Href: "/contacts", Icon: "users"},
				{Label: "Health", Href: "/contacts/health", Icon: "heart-pulse"},
				{Label: "Follow-ups", Href: "/contacts/followups", Icon: "bell-ring", BadgeKey: BadgeFollowups},
			},
		},
		{
			Title: "Work",
			Items: []NavItem{
				{Label: "Projects", Href: "/projects", Icon: "folder-kanban"},
				{
					Label: "Finance",
					Href:  "/finance",
					Icon:  "wallet",
					Children: []NavItem{
						{Label: "Summary", Href: "/finance", Icon: "chart-column"},
						{Label: "Quarter", Href: "/finance/quarter", Icon: "calendar-range"},
						{Label: "Invoices", Href: "/finance/invoices", Icon: "file-text", BadgeKey: BadgeOverdueInvoices},
						{Label: "Spending", Href: "/finance/spend", Icon: "chart-pie"},
						{Label: "Receipts", Href: "/finance/receipts", Icon: "receipt"},
					},
				},
				{Label: "Knowledge", Href: "/knowledge", Icon: "book-open"},
			},
		},
		{
			Title: "Agent",
			Items: []NavItem{
				{Label: "Chat", Href: "/agent", Icon: "message-circle"},
				{Label: "Approvals", Href: "/agent/actions", Icon: "shield-check", BadgeKey: BadgePendingActions},
			},
		},
	}

	for i := range sections {
		applyBadges(sections[i].Items, badges)
	}
	return sections
}

func applyBadges(items []NavItem, badges map[string]int) {
	for i := range items {
		if items[i].BadgeKey != "" {
			items[i].Badge = badges[items[i].BadgeKey]
		}
		applyBadges(items[i].Children, badges)
	}
}
