package main

import (
	"crawler-server/internal/auth"
	"crawler-server/internal/config"
	"fmt"
	"os"
	"time"
)

// devtoken выпускает JWT для локальной отладки WebSocket и REST.
func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	token, err := issue(cfg, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}

// issue выпускает токен для args[0]. TTL берется из args[1] или из TOKEN_TTL.
func issue(cfg config.Config, args []string) (string, error) {
	ttl := cfg.TokenTTL
	if len(args) >= 2 {
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid ttl: %w", err)
		}
		ttl = d
	}

	token, err := auth.NewAuthenticator(cfg.JWTSecret).Issue(args[0], ttl)
	if err != nil {
		return "", fmt.Errorf("issue failed: %w", err)
	}
	return token, nil
}

func printHelp() {
	fmt.Println(`Dev Token - выпуск токена для локального клиента
Usage:
  JWT_SECRET=... devtoken <user_id> [ttl]

  ttl - длительность в формате Go (24h, 90m), по умолчанию TOKEN_TTL (24h)

Пример подключения:
  ws://localhost:8080/ws?token=<token>
  curl -H "Authorization: Bearer <token>" localhost:8080/api/saves`)
}
