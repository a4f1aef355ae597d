package handler

// RunInline makes the webhook handle updates before it responds.
func RunInline(h *TelegramHandler) {
	h.dispatch = func(f func()) { f() }
}
