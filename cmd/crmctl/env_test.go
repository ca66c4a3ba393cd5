package main

import (
	"context"
	"testing"

	"github.com/diewo77/epic-crm/internal/services"
	"github.com/urfave/cli/v3"
)

func runArgs(t *testing.T, args ...string) (uint, error) {
	t.Helper()
	var (
		id     uint
		argErr error
	)
	cmd := &cli.Command{
		Name: "x",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, argErr = idArg(c)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"x"}, args...)); err != nil {
		t.Fatalf("run: %v", err)
	}
	return id, argErr
}

func TestIdArg(t *testing.T) {
	if id, err := runArgs(t, "42"); err != nil || id != 42 {
		t.Fatalf("idArg(42) = %d, %v", id, err)
	}
	for _, bad := range [][]string{nil, {"0"}, {"abc"}, {"1.5"}} {
		if _, err := runArgs(t, bad...); err == nil {
			t.Errorf("idArg(%v): expected error", bad)
		}
	}
}

func TestOptional(t *testing.T) {
	var got *string
	cmd := &cli.Command{
		Name:  "x",
		Flags: []cli.Flag{&cli.StringFlag{Name: "role"}, &cli.StringFlag{Name: "email"}},
		Action: func(ctx context.Context, c *cli.Command) error {
			got = optional(c, "role", c.String)
			if optional(c, "email", c.String) != nil {
				t.Error("unset flag returned a value")
			}
			return nil
		},
	}
	if err := cmd.Run(context.Background(), []string{"x", "--role", "sales"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got == nil || *got != "sales" {
		t.Fatalf("role = %v", got)
	}
}

func TestRef(t *testing.T) {
	id := uint(7)
	if ref(nil) != "-" || ref(&id) != "7" {
		t.Fatalf("ref: %q %q", ref(nil), ref(&id))
	}
	if amount(12.5) != "12.50" {
		t.Fatalf("amount = %q", amount(12.5))
	}
}

func TestDecodeData(t *testing.T) {
	in, err := decodeData[services.ContractInput](`{"client_id": 4, "signed": true}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.ClientID == nil || *in.ClientID != 4 || in.Signed == nil || !*in.Signed || in.TotalAmount != nil {
		t.Fatalf("input = %+v", in)
	}
	for _, bad := range []string{"", "  ", `{"client": 4}`, `{`} {
		if _, err := decodeData[services.ContractInput](bad); err == nil {
			t.Errorf("decodeData(%q): expected error", bad)
		}
	}
}
