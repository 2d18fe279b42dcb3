package command

import (
	"context"
	"fmt"
)

// NewPartnerCommand returns the "partner" command group.
func NewPartnerCommand(store Store) *Group {
	return NewGroup("partner", "Manage partners",
		&partnerListCommand{
			baseCommand: baseCommand{name: "list", usage: "partner list", description: "List all partners"},
			store:       store,
		},
		&partnerViewCommand{
			baseCommand: baseCommand{name: "view", usage: "partner view <name>", description: "Show the attributes of a partner"},
			store:       store,
		},
		&partnerAddCommand{
			baseCommand: baseCommand{name: "add", usage: "partner add <name> [key=value...]", description: "Add a partner"},
			store:       store,
		},
		&partnerDeleteCommand{
			baseCommand: baseCommand{name: "delete", usage: "partner delete <name>", description: "Delete a partner that no partnership uses"},
			store:       store,
		},
	)
}

type partnerListCommand struct {
	baseCommand
	store Store
}

func (c *partnerListCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 0, 0); !ok {
		return res
	}
	return OK(c.store.Current().Partners.Names()...)
}

type partnerViewCommand struct {
	baseCommand
	store Store
}

func (c *partnerViewCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 1, 1); !ok {
		return res
	}
	p, ok := c.store.Current().Partner(args[0])
	if !ok {
		return Errorf("unknown partner: %s", args[0])
	}
	return OK(attributeLines("", p.Attributes)...)
}

func (c *partnerViewCommand) Completions(input string) []string {
	return c.store.Current().Partners.Names()
}

type partnerAddCommand struct {
	baseCommand
	store Store
}

func (c *partnerAddCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 1, -1); !ok {
		return res
	}
	attrs, err := parseAttributes(args[1:])
	if err != nil {
		return FromError(err)
	}
	if err := c.store.AddPartner(args[0], attrs); err != nil {
		return FromError(err)
	}
	return OK(fmt.Sprintf("partner added: %s", args[0]))
}

type partnerDeleteCommand struct {
	baseCommand
	store Store
}

func (c *partnerDeleteCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 1, 1); !ok {
		return res
	}
	if err := c.store.DeletePartner(args[0]); err != nil {
		return FromError(err)
	}
	return OK(fmt.Sprintf("partner deleted: %s", args[0]))
}

func (c *partnerDeleteCommand) Completions(input string) []string {
	return c.store.Current().Partners.Names()
}
