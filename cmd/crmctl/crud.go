package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/internal/services"
	"github.com/urfave/cli/v3"
)

// crudService is the record-level surface shared by every entity service.
type crudService[T, In any] interface {
	Get(ctx context.Context, r policy.Requester, id uint) (*T, error)
	Create(ctx context.Context, r policy.Requester, in In) (*T, error)
	Update(ctx context.Context, r policy.Requester, id uint, in In) (*T, error)
	Delete(ctx context.Context, r policy.Requester, id uint) error
}

type messages struct {
	created, updated, deleted string
}

// crudCommands builds show, create, update and delete. Payloads use the same
// JSON fields as the HTTP API.
func crudCommands[T, In any](pick func(*services.Services) crudService[T, In], msg messages) []*cli.Command {
	dataFlag := &cli.StringFlag{Name: "data", Required: true, Usage: "JSON payload, as accepted by the API"}
	return []*cli.Command{
		{
			Name:      "show",
			Usage:     "Show one record",
			ArgsUsage: "<id>",
			Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
				id, err := idArg(c)
				if err != nil {
					return err
				}
				rec, err := pick(e.svc).Get(ctx, r, id)
				if err != nil {
					return err
				}
				return printJSON(rec)
			}),
		},
		{
			Name:  "create",
			Usage: "Create a record",
			Flags: []cli.Flag{dataFlag},
			Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
				in, err := decodeData[In](c.String("data"))
				if err != nil {
					return err
				}
				rec, err := pick(e.svc).Create(ctx, r, in)
				if err != nil {
					return err
				}
				fmt.Println(msg.created)
				return printJSON(rec)
			}),
		},
		{
			Name:      "update",
			Usage:     "Update a record; omitted fields are kept",
			ArgsUsage: "<id>",
			Flags:     []cli.Flag{dataFlag},
			Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
				id, err := idArg(c)
				if err != nil {
					return err
				}
				in, err := decodeData[In](c.String("data"))
				if err != nil {
					return err
				}
				rec, err := pick(e.svc).Update(ctx, r, id, in)
				if err != nil {
					return err
				}
				fmt.Println(msg.updated)
				return printJSON(rec)
			}),
		},
		{
			Name:      "delete",
			Usage:     "Delete a record",
			ArgsUsage: "<id>",
			Action: withRequester(func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error {
				id, err := idArg(c)
				if err != nil {
					return err
				}
				if err := pick(e.svc).Delete(ctx, r, id); err != nil {
					return err
				}
				fmt.Println(msg.deleted)
				return nil
			}),
		},
	}
}

// decodeData parses a --data payload, rejecting unknown fields.
func decodeData[In any](raw string) (In, error) {
	var in In
	if strings.TrimSpace(raw) == "" {
		return in, errors.New("--data is empty")
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("invalid --data: %w", err)
	}
	return in, nil
}
