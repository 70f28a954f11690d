package tui

import tea "charm.land/bubbletea/v2"

// Key strings as reported by tea.KeyPressMsg.String().
var (
	keyUp     = tea.KeyPressMsg{Code: tea.KeyUp}.String()
	keyDown   = tea.KeyPressMsg{Code: tea.KeyDown}.String()
	keyEnter  = tea.KeyPressMsg{Code: tea.KeyEnter}.String()
	keyTab    = tea.KeyPressMsg{Code: tea.KeyTab}.String()
	keyEscape = tea.KeyPressMsg{Code: tea.KeyEscape}.String()
	keyCtrlC  = (tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}).String()
	keyCtrlS  = (tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}).String()
	keyCtrlR  = (tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}).String()
)

// keyCtrlEnter is only reported by terminals with keyboard enhancements;
// ctrl+s is the primary binding.
var keyCtrlEnter = (tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModCtrl}).String()
