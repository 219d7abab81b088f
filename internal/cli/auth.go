package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vkarpova/atlasinfo/internal/common"
	"github.com/vkarpova/atlasinfo/internal/models"
	"github.com/vkarpova/atlasinfo/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and attempts to create
// a new account. A successful registration does not log the new user in;
// they still have to run login.
//
// The password byte slice is wiped before returning. Any I/O or service
// error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := <-a.manager.Register(ctx, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: string(password),
	})
	switch {
	case errors.Is(res.Err, session.ErrDuplicateUsername):
		printlnFn("Username is already taken")
		return res.Err
	case errors.Is(res.Err, session.ErrDuplicateEmail):
		printlnFn("Email is already registered")
		return res.Err
	case res.Err != nil:
		a.log.Warn(ctx, "registration failed", "error", res.Err)
		return res.Err
	}

	printlnFn("Account created, you can log in now")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
// A failed attempt reports one generic message; whether the account is
// unknown, the password is wrong or the account is blocked is deliberately
// not revealed.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := <-a.manager.Login(ctx, models.Credentials{
		Username: username,
		Password: string(password),
	})
	if res.Err != nil {
		if errors.Is(res.Err, session.ErrInvalidCredentials) {
			printlnFn("Invalid username or password")
		} else {
			a.log.Warn(ctx, "login failed", "error", res.Err)
		}
		return res.Err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", res.User.Username))
	return nil
}

// Logout ends the session and tells sibling processes to do the same.
func (a *App) Logout(ctx context.Context) error {
	a.manager.Logout(ctx, true)
	printlnFn("Logged out")
	return nil
}

// WhoAmI prints the current session details.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.manager.CurrentState()
	if !st.IsAuthenticated || st.CurrentUser == nil {
		printlnFn("Not logged in")
		return nil
	}
	u := st.CurrentUser
	printlnFn(fmt.Sprintf("%s <%s> role=%s id=%s", u.Username, u.Email, u.Role, u.ID))
	return nil
}
