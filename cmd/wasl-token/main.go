// Command wasl-token mints an operator bearer token signed with
// JWT_SIGNING_KEY, for scripts and local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	jwttoken "wasl/internal/jwt_token"
	"wasl/internal/platform/config"
	id "wasl/pkg/domain"
)

func main() {
	var (
		operator = flag.String("operator", "", "operator id (UUID); a new one is generated when empty")
		name     = flag.String("name", "operator", "operator display name")
		role     = flag.String("role", "operator", "operator role")
		ttl      = flag.Duration("ttl", 8*time.Hour, "token lifetime")
	)
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		color.Red("config: %v", err)
		os.Exit(1)
	}
	if cfg.UsesDevSigningKey() {
		color.Yellow("JWT_SIGNING_KEY not set; token is signed with the development key")
	}

	operatorID := id.OperatorID(uuid.New())
	if *operator != "" {
		if operatorID, err = id.ParseOperatorID(*operator); err != nil {
			color.Red("operator: %v", err)
			os.Exit(2)
		}
	}

	token, err := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience).
		GenerateAccessToken(operatorID, *name, *role, *ttl)
	if err != nil {
		color.Red("signing token: %v", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "operator %s, expires in %s\n", operatorID, *ttl)
	fmt.Println(token)
}
