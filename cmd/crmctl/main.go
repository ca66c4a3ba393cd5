// Command crmctl runs CRM operations from a terminal. Every command except
// migrate and seed authenticates with --as and goes through the same services
// as the HTTP API, so the same permission checks and denial audit apply.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}
	if err := newApp().Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "crmctl",
		Usage: "Epic Events CRM operator CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "as", Usage: "email of the identity to act as", Sources: cli.EnvVars("CRM_AS")},
			&cli.StringFlag{Name: "password", Usage: "password of the --as identity", Sources: cli.EnvVars("CRM_PASSWORD")},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			identitiesCommand(),
			clientsCommand(),
			contractsCommand(),
			eventsCommand(),
		},
	}
}
