package preview

// Hooks are lifecycle callbacks fired by a Preview.
// Every field is optional. Hooks are never called with the Preview lock held,
// so they may call back into the Preview.
type Hooks struct {
	OnInitStart   func()
	OnInitEnd     func()
	OnRenderStart func()
	OnRenderEnd   func()
	OnError       func(msg string)
}

func (h Hooks) initStart() {
	if h.OnInitStart != nil {
		h.OnInitStart()
	}
}

func (h Hooks) initEnd() {
	if h.OnInitEnd != nil {
		h.OnInitEnd()
	}
}

func (h Hooks) renderStart() {
	if h.OnRenderStart != nil {
		h.OnRenderStart()
	}
}

func (h Hooks) renderEnd() {
	if h.OnRenderEnd != nil {
		h.OnRenderEnd()
	}
}

func (h Hooks) error(msgs []string) {
	if h.OnError == nil {
		return
	}
	for _, msg := range msgs {
		h.OnError(msg)
	}
}
