package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/vovakirdan/msgboard/internal/board"
)

const (
	appTitle    = "Sistema de Gestión de Mensajes"
	appSubtitle = "Plataforma empresarial para administración de contenido"

	// counterWarnAt is where the character counter turns to a warning color.
	counterWarnAt = 450
)

// View renders the screen.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

func (m *Model) render() string {
	snap := m.board.Snapshot()

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderForm(snap),
		m.renderList(snap),
		m.renderToast(snap),
		m.renderHelp(snap),
	)

	var dialog string
	switch {
	case snap.Confirm.Open:
		dialog = m.renderConfirm(snap)
	case snap.Edit.Open:
		dialog = m.renderEdit(snap)
	}
	if dialog == "" {
		return screen
	}

	width, height := m.width, m.height
	if width == 0 || height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, screen, dialog)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m *Model) renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(appTitle),
		subtitleStyle.Render(appSubtitle),
	)
}

func (m *Model) renderForm(snap board.Snapshot) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Crear nuevo mensaje"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	b.WriteString(renderCounter(m.input.Value()))
	if snap.Input.Error != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(snap.Input.Error))
	}
	b.WriteString("\n")

	if snap.Loading.Create {
		b.WriteString(mutedStyle.Render("Creando..."))
	} else if m.board.CanSubmit() {
		b.WriteString(keyStyle.Render("[Ctrl+S]") + " Crear Mensaje")
	} else {
		b.WriteString(mutedStyle.Render("[Ctrl+S] Crear Mensaje"))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Tip: Usa Ctrl+S para crear rápidamente"))

	style := sectionStyle
	if m.focus == focusForm {
		style = sectionFocusedStyle
	}
	return style.Render(b.String())
}

// renderCounter shows the n/500 count, highlighted past counterWarnAt.
func renderCounter(text string) string {
	n := board.Length(text)
	counter := fmt.Sprintf("%d/%d", n, board.MaxLength)
	if n > counterWarnAt {
		return warningStyle.Render(counter)
	}
	return mutedStyle.Render(counter)
}

func (m *Model) renderList(snap board.Snapshot) string {
	var b strings.Builder

	header := labelStyle.Render(fmt.Sprintf("Mensajes (%d)", len(snap.Messages)))
	if snap.Loading.Fetch {
		header += "  " + mutedStyle.Render("Actualizando...")
	} else {
		header += "  " + keyStyle.Render("[r]") + " Actualizar"
	}
	b.WriteString(header)
	b.WriteString("\n")

	switch {
	case snap.Loading.Fetch && len(snap.Messages) == 0:
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Cargando mensajes..."))
	case len(snap.Messages) == 0:
		b.WriteString("\n")
		b.WriteString("No hay mensajes disponibles")
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Cree el primer mensaje para comenzar"))
	default:
		for i, msg := range snap.Messages {
			style := cardStyle
			if m.focus == focusList && i == m.selected {
				style = cardSelectedStyle
			}
			card := lipgloss.JoinVertical(lipgloss.Left,
				mutedStyle.Render(fmt.Sprintf("ID: %d", msg.ID)),
				msg.Message,
			)
			b.WriteString("\n")
			b.WriteString(style.Render(card))
		}
	}

	style := sectionStyle
	if m.focus == focusList {
		style = sectionFocusedStyle
	}
	return style.Render(b.String())
}

func (m *Model) renderToast(snap board.Snapshot) string {
	if !snap.HasToast {
		return ""
	}
	return toastStyles[snap.Toast.Kind.String()].Render(snap.Toast.Text)
}

func (m *Model) renderHelp(snap board.Snapshot) string {
	var parts []string
	if m.focus == focusList {
		parts = []string{"tab formulario", "↑/↓ seleccionar", "e editar", "d eliminar", "r actualizar", "q salir"}
	} else {
		parts = []string{"tab lista", "ctrl+s crear", "ctrl+r actualizar", "ctrl+c salir"}
	}
	if snap.HasToast {
		parts = append(parts, "esc cerrar aviso")
	}
	return mutedStyle.Render(strings.Join(parts, " • "))
}

func (m *Model) renderEdit(snap board.Snapshot) string {
	var b strings.Builder

	b.WriteString(modalTitleStyle.Render("Editar mensaje"))
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n")
	b.WriteString(renderCounter(m.editor.Value()))
	if snap.Edit.Invalid {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(board.EditInvalidText))
	}
	b.WriteString("\n")
	switch {
	case snap.Loading.Update:
		b.WriteString(mutedStyle.Render("Guardando..."))
	case strings.TrimSpace(m.editor.Value()) == "":
		b.WriteString(mutedStyle.Render("[Ctrl+S] Guardar") + "  " + keyStyle.Render("[Esc]") + " Cancelar")
	default:
		b.WriteString(keyStyle.Render("[Ctrl+S]") + " Guardar  " + keyStyle.Render("[Esc]") + " Cancelar")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Tip: Usa Ctrl+S para guardar rápidamente"))
	return modalStyle.Render(b.String())
}

func (m *Model) renderConfirm(snap board.Snapshot) string {
	var b strings.Builder

	b.WriteString(modalTitleStyle.Render("Confirmar eliminación"))
	b.WriteString("\n")
	b.WriteString("¿Está seguro de que desea eliminar este mensaje?")
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%q", snap.Confirm.Target.Message)))
	b.WriteString("\n\n")
	if snap.Loading.Delete {
		b.WriteString(mutedStyle.Render("Eliminando..."))
	} else {
		b.WriteString(keyStyle.Render("[y]") + " Eliminar  " + keyStyle.Render("[n]") + " Cancelar")
	}
	return modalStyle.Render(b.String())
}
