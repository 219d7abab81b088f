// Package adminui implements the interactive user-management TUI using Bubble Tea.
package adminui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vkarpova/atlasinfo/internal/models"
	"github.com/vkarpova/atlasinfo/internal/session"
)

// Directory is the slice of the session manager the admin panel needs.
type Directory interface {
	ListUsers(ctx context.Context) []models.PublicUser
	ToggleBlock(ctx context.Context, userID string) <-chan session.ToggleBlockResult
	ResetPassword(ctx context.Context, userID string) <-chan session.ResetPasswordResult
	Register(ctx context.Context, req models.RegisterRequest) <-chan session.RegisterResult
}

// state represents the current screen in the admin UI.
type state int

const (
	stateUsers state = iota
	stateNewUser
	stateConfirmBlock
	stateConfirmReset
)

// Model holds all UI state for the admin panel.
type Model struct {
	dir   Directory
	ctx   context.Context
	admin string

	st  state
	err string

	users   []models.PublicUser
	userLst list.Model

	newUsername textinput.Model
	newEmail    textinput.Model
	newPassword textinput.Model
}

// New constructs a UI model and initializes inputs and lists.
func New(ctx context.Context, dir Directory, adminName string) Model {
	lst := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	lst.Title = "Users"

	m := Model{dir: dir, ctx: ctx, admin: adminName, st: stateUsers, userLst: lst}

	m.newUsername = textinput.New()
	m.newUsername.Placeholder = "username"
	m.newUsername.Prompt = "Username: "
	m.newEmail = textinput.New()
	m.newEmail.Placeholder = "user@example.com"
	m.newEmail.Prompt = "Email: "
	m.newPassword = textinput.New()
	m.newPassword.Placeholder = "password"
	m.newPassword.EchoMode = textinput.EchoPassword
	m.newPassword.Prompt = "Password: "

	return m
}

// Init returns the initial command for the Bubble Tea runtime.
func (m Model) Init() tea.Cmd {
	return refreshUsersCmd(m.ctx, m.dir)
}

type errMsg string
type usersMsg []models.PublicUser
type okMsg struct{}

// Update routes messages based on UI state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.userLst.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	case errMsg:
		m.err = string(msg)
		return m, nil
	case usersMsg:
		m.users = []models.PublicUser(msg)
		items := make([]list.Item, 0, len(m.users))
		for _, u := range m.users {
			items = append(items, userItem(u))
		}
		m.userLst.SetItems(items)
		m.err = ""
		return m, nil
	case okMsg:
		m.err = ""
		return m, refreshUsersCmd(m.ctx, m.dir)
	}

	switch m.st {
	case stateUsers:
		var cmd tea.Cmd
		m.userLst, cmd = m.userLst.Update(msg)
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "r":
				return m, refreshUsersCmd(m.ctx, m.dir)
			case "n":
				m.st = stateNewUser
				m.err = ""
				m.newUsername.SetValue("")
				m.newEmail.SetValue("")
				m.newPassword.SetValue("")
				m.newUsername.Focus()
				return m, nil
			case "b":
				if _, ok := m.selectedUser(); ok {
					m.st = stateConfirmBlock
					m.err = ""
				}
				return m, nil
			case "p":
				if _, ok := m.selectedUser(); ok {
					m.st = stateConfirmReset
					m.err = ""
				}
				return m, nil
			}
		}
		return m, cmd

	case stateNewUser:
		return m.updateNewUser(msg)
	case stateConfirmBlock:
		return m.updateConfirm(msg, func(u models.PublicUser) tea.Cmd {
			return toggleBlockCmd(m.ctx, m.dir, u.ID)
		})
	case stateConfirmReset:
		return m.updateConfirm(msg, func(u models.PublicUser) tea.Cmd {
			return resetPasswordCmd(m.ctx, m.dir, u.ID)
		})
	default:
		return m, nil
	}
}

// View renders the current screen as a string.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString("AtlasInfo admin")
	if m.admin != "" {
		b.WriteString(" (" + m.admin + ")")
	}
	b.WriteString("\n\n")

	switch m.st {
	case stateUsers:
		b.WriteString(m.userLst.View())
		b.WriteString("\n")
		b.WriteString("Keys: n=new b=block/unblock p=reset-password r=refresh q=quit\n")
	case stateNewUser:
		b.WriteString("Create user\n\n")
		b.WriteString(m.newUsername.View() + "\n")
		b.WriteString(m.newEmail.View() + "\n")
		b.WriteString(m.newPassword.View() + "\n\n")
		b.WriteString("Enter=save  esc=back\n")
	case stateConfirmBlock:
		if u, ok := m.selectedUser(); ok {
			verb := "Block"
			if u.IsBlocked {
				verb = "Unblock"
			}
			b.WriteString(fmt.Sprintf("%s user %q?\n\n", verb, u.Username))
		}
		b.WriteString("y=confirm  esc=back\n")
	case stateConfirmReset:
		if u, ok := m.selectedUser(); ok {
			b.WriteString(fmt.Sprintf("Reset password for %q to the recovery value?\n\n", u.Username))
		}
		b.WriteString("y=confirm  esc=back\n")
	}

	if m.err != "" {
		b.WriteString("\nError: " + m.err + "\n")
	}

	return b.String()
}

type userItem models.PublicUser

func (u userItem) Title() string { return u.Username }
func (u userItem) Description() string {
	status := "active"
	if u.IsBlocked {
		status = "blocked"
	}
	return fmt.Sprintf("%s role=%s %s", u.Email, u.Role, status)
}
func (u userItem) FilterValue() string { return u.Username }

// selectedUser returns the currently highlighted user list entry.
func (m *Model) selectedUser() (models.PublicUser, bool) {
	if m.userLst.SelectedItem() == nil {
		return models.PublicUser{}, false
	}
	if it, ok := m.userLst.SelectedItem().(userItem); ok {
		return models.PublicUser(it), true
	}
	return models.PublicUser{}, false
}

func refreshUsersCmd(ctx context.Context, dir Directory) tea.Cmd {
	return func() tea.Msg {
		return usersMsg(dir.ListUsers(ctx))
	}
}

func toggleBlockCmd(ctx context.Context, dir Directory, id string) tea.Cmd {
	return func() tea.Msg {
		if res := <-dir.ToggleBlock(ctx, id); res.Err != nil {
			return errMsg(res.Err.Error())
		}
		return okMsg{}
	}
}

func resetPasswordCmd(ctx context.Context, dir Directory, id string) tea.Cmd {
	return func() tea.Msg {
		if res := <-dir.ResetPassword(ctx, id); res.Err != nil {
			return errMsg(res.Err.Error())
		}
		return okMsg{}
	}
}

func registerCmd(ctx context.Context, dir Directory, req models.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		if res := <-dir.Register(ctx, req); res.Err != nil {
			return errMsg(res.Err.Error())
		}
		return okMsg{}
	}
}

// updateNewUser handles input while creating a new user.
func (m Model) updateNewUser(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.st = stateUsers
			return m, refreshUsersCmd(m.ctx, m.dir)
		case "enter":
			req := models.RegisterRequest{
				Username: strings.TrimSpace(m.newUsername.Value()),
				Email:    strings.TrimSpace(m.newEmail.Value()),
				Password: m.newPassword.Value(),
			}
			m.st = stateUsers
			return m, registerCmd(m.ctx, m.dir, req)
		}
	}

	// Focus order: username -> email -> password
	var cmd tea.Cmd
	if m.newUsername.Focused() {
		m.newUsername, cmd = m.newUsername.Update(msg)
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "tab" {
			m.newUsername.Blur()
			m.newEmail.Focus()
		}
		return m, cmd
	}
	if m.newEmail.Focused() {
		m.newEmail, cmd = m.newEmail.Update(msg)
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "tab" {
			m.newEmail.Blur()
			m.newPassword.Focus()
		}
		return m, cmd
	}
	m.newPassword, cmd = m.newPassword.Update(msg)
	return m, cmd
}

// updateConfirm handles the yes/no confirmation screens.
func (m Model) updateConfirm(msg tea.Msg, action func(models.PublicUser) tea.Cmd) (tea.Model, tea.Cmd) {
	u, ok := m.selectedUser()
	if !ok {
		m.st = stateUsers
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "n":
			m.st = stateUsers
			return m, nil
		case "y", "enter":
			m.st = stateUsers
			return m, action(u)
		}
	}
	return m, nil
}
