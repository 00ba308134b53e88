// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout and whoami commands.
//
// Command: login
// Short:   Authenticate against the backend and store the session
//
// Examples:
//   helpdesk login                          Prompt for email and password
//   helpdesk login --email ivan@corp.ru     Prompt only for the password
//
// Command: register
// Short:   Create an account and store the issued session
//
// Examples:
//   helpdesk register
//   helpdesk register --username ivan --email ivan@corp.ru
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/session"
)

const requestTimeout = 30 * time.Second

// promptLine reads one line of input with basic line editing.
func promptLine(prompt string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	value, err := line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// promptPassword reads a password without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(passBytes), nil
}

func newClient(cfg *config.Config, args *ArgParser, store *session.Store) *api.Client {
	url := args.FlagOrDefault("server", cfg.Server.URL)
	return api.NewClient(url, store).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second)
}

// HandleLogin authenticates and persists the session.
func HandleLogin(cfg *config.Config, store *session.Store, args *ArgParser) error {
	email := args.Flag("email")
	if email == "" {
		var err error
		if email, err = promptLine("Email: "); err != nil {
			return err
		}
	}
	password, err := promptPassword("Пароль: ")
	if err != nil {
		return err
	}
	if email == "" || password == "" {
		return fmt.Errorf("email и пароль обязательны")
	}

	client := newClient(cfg, args, store)
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	creds, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := store.Set(creds.Token, &creds.User); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	fmt.Printf("Вы вошли как %s (%s)\n", creds.User.Username, creds.User.Role)
	return nil
}

// HandleRegister creates an account and persists the issued session.
func HandleRegister(cfg *config.Config, store *session.Store, args *ArgParser) error {
	username := args.Flag("username")
	if username == "" {
		var err error
		if username, err = promptLine("Имя пользователя: "); err != nil {
			return err
		}
	}
	email := args.Flag("email")
	if email == "" {
		var err error
		if email, err = promptLine("Email: "); err != nil {
			return err
		}
	}
	password, err := promptPassword("Пароль: ")
	if err != nil {
		return err
	}
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("все поля обязательны")
	}

	role, err := model.ParseRole(args.FlagOrDefault("role", string(model.RoleUser)))
	if err != nil {
		return err
	}

	client := newClient(cfg, args, store)
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	creds, err := client.Register(ctx, username, email, password, role)
	if err != nil {
		return err
	}
	if err := store.Set(creds.Token, &creds.User); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	fmt.Printf("Аккаунт создан: %s (%s)\n", creds.User.Username, creds.User.Role)
	return nil
}

// HandleLogout clears the stored session.
func HandleLogout(store *session.Store) error {
	if !store.Load() {
		fmt.Println("Сессия не найдена")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Вы вышли из системы")
	return nil
}

// HandleWhoami prints the stored identity without touching the network.
func HandleWhoami(store *session.Store, args *ArgParser) error {
	if !store.Load() {
		return fmt.Errorf("вы не вошли в систему")
	}
	u := store.User()
	if args.BoolFlag("json") {
		fmt.Printf("{\"id\":%d,\"username\":%q,\"email\":%q,\"role\":%q}\n", u.ID, u.Username, u.Email, u.Role)
		return nil
	}
	fmt.Printf("%s <%s>  роль: %s\n", u.Username, u.Email, u.Role)
	return nil
}
