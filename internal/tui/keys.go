// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	quit    key.Binding
	logout  key.Binding
	newItem key.Binding
	refresh key.Binding
	edit    key.Binding
	delete  key.Binding
	toggle  key.Binding
	filter  key.Binding
	chat    key.Binding
	history key.Binding
	newChat key.Binding
	copy    key.Binding
	reply   key.Binding
	yes     key.Binding
	no      key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	logout:  key.NewBinding(key.WithKeys("L")),
	newItem: key.NewBinding(key.WithKeys("n")),
	refresh: key.NewBinding(key.WithKeys("r")),
	edit:    key.NewBinding(key.WithKeys("e")),
	delete:  key.NewBinding(key.WithKeys("d")),
	toggle:  key.NewBinding(key.WithKeys(" ", "x")),
	filter:  key.NewBinding(key.WithKeys("f")),
	chat:    key.NewBinding(key.WithKeys("a")),
	history: key.NewBinding(key.WithKeys("ctrl+o")),
	newChat: key.NewBinding(key.WithKeys("ctrl+n")),
	copy:    key.NewBinding(key.WithKeys("c")),
	reply:   key.NewBinding(key.WithKeys("ctrl+y")),
	yes:     key.NewBinding(key.WithKeys("y")),
	no:      key.NewBinding(key.WithKeys("n", "esc")),
}
