// ABOUTME: Development helper that prints an access token for a user id
// ABOUTME: Signs with the same key and lifetime as the API server

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"openmusic-api/infrastructure/auth/jwt"
	"openmusic-api/pkg/config"
)

func main() {
	userID := flag.String("user", "", "user id to issue the token for")
	flag.Parse()

	if *userID == "" {
		log.Fatal("usage: token -user <user-id>")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Auth.AccessTokenKey == "" {
		log.Fatal("ACCESS_TOKEN_KEY is not set")
	}

	token, err := jwt.NewManager(cfg.Auth.AccessTokenKey, cfg.Auth.AccessTokenAge).Issue(context.Background(), *userID)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
