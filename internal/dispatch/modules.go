package dispatch

// SearchModule owns the search-mode transitions and in-query editing keys.
func SearchModule() Module {
	return Module{
		Name: "search",
		Bindings: map[Binding]Handler{
			{Mode: ModeNormal, Key: "/"}: func(d *Dispatcher, _ Event) []Effect {
				return d.enterSearch()
			},
			{Mode: ModeSearch, Key: KeyEsc}: func(d *Dispatcher, _ Event) []Effect {
				return d.cancelSearch()
			},
			{Mode: ModeSearch, Key: KeyEnter}: func(d *Dispatcher, _ Event) []Effect {
				return d.commitSearch()
			},
			{Mode: ModeSearch, Key: KeyBackspace}: func(d *Dispatcher, _ Event) []Effect {
				return d.eraseQuery()
			},
		},
	}
}

// NavigationModule owns cursor movement over the displayed note sequence.
func NavigationModule() Module {
	return Module{
		Name: "navigate",
		Bindings: map[Binding]Handler{
			{Mode: ModeNormal, Key: "j"}: func(d *Dispatcher, _ Event) []Effect {
				return d.moveCursor(1)
			},
			{Mode: ModeNormal, Key: "k"}: func(d *Dispatcher, _ Event) []Effect {
				return d.moveCursor(-1)
			},
			{Mode: ModeNormal, Key: "g"}: func(d *Dispatcher, _ Event) []Effect {
				return d.cursorTo(0)
			},
			{Mode: ModeNormal, Key: "G"}: func(d *Dispatcher, _ Event) []Effect {
				return d.cursorTo(len(d.list) - 1)
			},
			{Mode: ModeNormal, Key: KeyEnter}: func(d *Dispatcher, _ Event) []Effect {
				return d.openSelected()
			},
			{Mode: ModeNormal, Key: "q"}: func(_ *Dispatcher, _ Event) []Effect {
				return []Effect{QuitRequested{}}
			},
		},
	}
}
