// register creates a user from the command line — the bootstrap path for
// the very first admin, before anyone can log in.
//
// Run: go run ./cmd/register [-admin] <email> <username>
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/coinflipper/login-service/config"
	"github.com/coinflipper/login-service/internal/infrastructure/postgres"
	"github.com/coinflipper/login-service/internal/usecase"
)

func main() {
	admin := flag.Bool("admin", false, "grant the admin flag")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: register [-admin] <email> <username>")
		os.Exit(2)
	}
	emailAddr, username := flag.Arg(0), flag.Arg(1)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	firstName := prompt(reader, "First Name: ", true)
	lastName := prompt(reader, "Last Name: ", true)

	users := usecase.NewUserUsecase(postgres.NewUserRepository(pool))
	user, err := users.Create(ctx, usecase.CreateUserInput{
		Email:     emailAddr,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Admin:     *admin,
	})
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("Created user %s <%s> (admin=%v)\n", user.Username, user.Email, user.Admin)
}

// prompt re-asks until it gets a non-empty answer when required.
func prompt(reader *bufio.Reader, label string, required bool) string {
	for {
		fmt.Print(label)
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("read input: %v", err)
		}
		answer := strings.TrimSpace(line)
		if answer != "" || !required {
			return answer
		}
	}
}
