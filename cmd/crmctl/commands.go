package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/diewo77/epic-crm/internal/db"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/internal/services"
	"github.com/urfave/cli/v3"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Bring the database schema up to date",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.flush()
			if err := db.Prepare(e.db, e.cfg.Database.Migrations); err != nil {
				return err
			}
			fmt.Println("migrations completed")
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the first management account when there is none",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "defaults to ADMIN_EMAIL"},
			&cli.StringFlag{Name: "admin-password", Usage: "defaults to ADMIN_PASSWORD"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.flush()
			email, password := e.cfg.App.AdminEmail, e.cfg.App.AdminPassword
			if c.IsSet("email") {
				email = c.String("email")
			}
			if c.IsSet("admin-password") {
				password = c.String("admin-password")
			}
			if err := db.Seed(ctx, e.db, email, password); err != nil {
				return err
			}
			fmt.Println("seed completed")
			return nil
		},
	}
}

func identitiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "identities",
		Usage: "Manage staff accounts (management only)",
		Commands: append([]*cli.Command{
			{
				Name:  "list",
				Usage: "List identities",
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					identities, err := e.svc.Identities.List(ctx, r)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(identities)
					}
					rows := make([][]string, 0, len(identities))
					for _, i := range identities {
						rows = append(rows, []string{itoa(i.ID), i.Email, i.FullName, i.Role.Label(), strconv.FormatBool(i.IsActive)})
					}
					printTable([]string{"ID", "EMAIL", "NAME", "ROLE", "ACTIVE"}, rows)
					return nil
				}),
			},
			{
				Name:      "deactivate",
				Usage:     "Prevent an identity from signing in",
				ArgsUsage: "<id>",
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					inactive := false
					if _, err := e.svc.Identities.Update(ctx, r, id, services.IdentityInput{IsActive: &inactive}); err != nil {
						return err
					}
					fmt.Println(services.MsgIdentityUpdated)
					return nil
				}),
			},
		}, crudCommands(identities, messages{services.MsgIdentityCreated, services.MsgIdentityUpdated, services.MsgIdentityDeleted})...),
	}
}

func clientsCommand() *cli.Command {
	return &cli.Command{
		Name:  "clients",
		Usage: "Client commands",
		Commands: append([]*cli.Command{
			{
				Name:  "list",
				Usage: "List the clients visible to --as",
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					clients, err := e.svc.Clients.List(ctx, r)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(clients)
					}
					rows := make([][]string, 0, len(clients))
					for _, cl := range clients {
						rows = append(rows, []string{itoa(cl.ID), cl.FullName, cl.Email, cl.CompanyName, ref(cl.SalesContactID)})
					}
					printTable([]string{"ID", "NAME", "EMAIL", "COMPANY", "SALES CONTACT"}, rows)
					return nil
				}),
			},
			{
				Name:  "assign",
				Usage: "Give every unassigned client to the least loaded sales contact",
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					assignments, err := e.svc.Clients.AssignSalesContacts(ctx, r)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(assignments)
					}
					rows := make([][]string, 0, len(assignments))
					for _, a := range assignments {
						rows = append(rows, []string{itoa(a.ClientID), itoa(a.SalesContactID)})
					}
					printTable([]string{"CLIENT", "SALES CONTACT"}, rows)
					fmt.Printf("%d client(s) assigned\n", len(assignments))
					return nil
				}),
			},
			{
				Name:  "sales-book",
				Usage: "Show how many clients each sales contact holds",
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					book, err := e.svc.Clients.SalesBook(ctx, r)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(book)
					}
					rows := make([][]string, 0, len(book))
					for _, l := range book {
						rows = append(rows, []string{itoa(l.IdentityID), l.Email, strconv.FormatInt(l.Clients, 10)})
					}
					printTable([]string{"ID", "EMAIL", "CLIENTS"}, rows)
					return nil
				}),
			},
		}, crudCommands(clients, messages{services.MsgClientCreated, services.MsgClientUpdated, services.MsgClientDeleted})...),
	}
}

func contractsCommand() *cli.Command {
	return &cli.Command{
		Name:  "contracts",
		Usage: "Contract commands",
		Commands: append([]*cli.Command{
			{
				Name:  "list",
				Usage: "List contracts",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "mine", Usage: "only contracts where --as is the sales contact"},
					&cli.BoolFlag{Name: "unsigned", Usage: "only unsigned contracts"},
					&cli.BoolFlag{Name: "unpaid", Usage: "only contracts with an amount left to pay"},
				},
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					f := services.ContractFilter{Mine: c.Bool("mine"), Unpaid: c.Bool("unpaid")}
					if c.Bool("unsigned") {
						signed := false
						f.Signed = &signed
					}
					contracts, err := e.svc.Contracts.List(ctx, r, f)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(contracts)
					}
					rows := make([][]string, 0, len(contracts))
					for _, k := range contracts {
						rows = append(rows, []string{
							itoa(k.ID), ref(k.ClientID), name(k.SalesContact),
							strconv.FormatBool(k.Signed), amount(k.TotalAmount), amount(k.RemainingAmount),
						})
					}
					printTable([]string{"ID", "CLIENT", "SALES CONTACT", "SIGNED", "TOTAL", "REMAINING"}, rows)
					return nil
				}),
			},
			{
				Name:      "sign",
				Usage:     "Mark a contract as signed",
				ArgsUsage: "<id>",
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					signed := true
					if _, err := e.svc.Contracts.Update(ctx, r, id, services.ContractInput{Signed: &signed}); err != nil {
						return err
					}
					fmt.Println(services.MsgContractUpdated)
					return nil
				}),
			},
			{
				Name:  "revenue",
				Usage: "Sum signed business",
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					rev, err := e.svc.Contracts.Revenue(ctx, r)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(rev)
					}
					printTable([]string{"CONTRACTS", "SIGNED", "TOTAL", "COLLECTED", "OUTSTANDING"}, [][]string{{
						strconv.FormatInt(rev.Contracts, 10), strconv.FormatInt(rev.Signed, 10),
						amount(rev.Total), amount(rev.Collected), amount(rev.Outstanding),
					}})
					return nil
				}),
			},
		}, crudCommands(contracts, messages{services.MsgContractCreated, services.MsgContractUpdated, services.MsgContractDeleted})...),
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Event commands",
		Commands: append([]*cli.Command{
			{
				Name:  "list",
				Usage: "List events",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "mine", Usage: "only events where --as is the support contact"},
					&cli.BoolFlag{Name: "unassigned", Usage: "only events without a support contact"},
				},
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					events, err := e.svc.Events.List(ctx, r, services.EventFilter{Mine: c.Bool("mine"), Unassigned: c.Bool("unassigned")})
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(events)
					}
					rows := make([][]string, 0, len(events))
					for _, ev := range events {
						rows = append(rows, []string{
							itoa(ev.ID), ev.Name, ref(ev.ContractID), ev.ClientName,
							ev.StartDate.Format(time.DateTime), name(ev.SupportContact),
						})
					}
					printTable([]string{"ID", "NAME", "CONTRACT", "CLIENT", "START", "SUPPORT"}, rows)
					return nil
				}),
			},
			{
				Name:      "assign-support",
				Usage:     "Set the support contact of an event",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "support", Required: true, Usage: "id of a support identity"},
				},
				Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					support, err := strconv.ParseUint(c.String("support"), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid --support: %w", err)
					}
					in := services.EventInput{SupportContactID: services.SetRef(uint(support))}
					if _, err := e.svc.Events.Update(ctx, r, id, in); err != nil {
						return err
					}
					fmt.Println(services.MsgEventUpdated)
					return nil
				}),
			},
		}, crudCommands(events, messages{services.MsgEventCreated, services.MsgEventUpdated, services.MsgEventDeleted})...),
	}
}

func identities(s *services.Services) crudService[models.Identity, services.IdentityInput] {
	return s.Identities
}

func clients(s *services.Services) crudService[models.Client, services.ClientInput] { return s.Clients }

func contracts(s *services.Services) crudService[models.Contract, services.ContractInput] {
	return s.Contracts
}

func events(s *services.Services) crudService[models.Event, services.EventInput] { return s.Events }
