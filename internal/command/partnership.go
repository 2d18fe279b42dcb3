package command

import (
	"context"
	"fmt"
)

// NewPartnershipCommand returns the "partnership" command group.
func NewPartnershipCommand(store Store) *Group {
	return NewGroup("partnership", "Manage partnerships and the partnership file",
		&partnershipListCommand{
			baseCommand: baseCommand{name: "list", usage: "partnership list", description: "List all partnerships"},
			store:       store,
		},
		&partnershipViewCommand{
			baseCommand: baseCommand{name: "view", usage: "partnership view <name>", description: "Show a partnership"},
			store:       store,
		},
		&partnershipAddCommand{
			baseCommand: baseCommand{
				name:        "add",
				usage:       "partnership add <name> <sender> <receiver> [key=value...]",
				description: "Add a partnership between two partners",
			},
			store: store,
		},
		&partnershipDeleteCommand{
			baseCommand: baseCommand{name: "delete", usage: "partnership delete <name>", description: "Delete a partnership"},
			store:       store,
		},
		&partnershipStoreCommand{
			baseCommand: baseCommand{name: "store", usage: "partnership store", description: "Write the partnerships to the partnership file"},
			store:       store,
		},
		&partnershipRefreshCommand{
			baseCommand: baseCommand{
				name:        "refresh",
				usage:       "partnership refresh",
				description: "Reload the partnership file",
				aliases:     []string{"reload"},
			},
			store: store,
		},
	)
}

type partnershipListCommand struct {
	baseCommand
	store Store
}

func (c *partnershipListCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 0, 0); !ok {
		return res
	}
	return OK(c.store.Current().Partnerships.Names()...)
}

type partnershipViewCommand struct {
	baseCommand
	store Store
}

func (c *partnershipViewCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 1, 1); !ok {
		return res
	}
	ps, ok := c.store.Current().Partnership(args[0])
	if !ok {
		return Errorf("unknown partnership: %s", args[0])
	}

	lines := []string{fmt.Sprintf("name = %s", ps.Name), "sender:"}
	lines = append(lines, attributeLines("  ", ps.SenderIDs)...)
	lines = append(lines, "receiver:")
	lines = append(lines, attributeLines("  ", ps.ReceiverIDs)...)
	lines = append(lines, "attributes:")
	lines = append(lines, attributeLines("  ", ps.Attributes)...)
	return OK(lines...)
}

func (c *partnershipViewCommand) Completions(input string) []string {
	return c.store.Current().Partnerships.Names()
}

type partnershipAddCommand struct {
	baseCommand
	store Store
}

func (c *partnershipAddCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 3, -1); !ok {
		return res
	}
	attrs, err := parseAttributes(args[3:])
	if err != nil {
		return FromError(err)
	}
	if err := c.store.AddPartnership(args[0], args[1], args[2], attrs); err != nil {
		return FromError(err)
	}
	return OK(fmt.Sprintf("partnership added: %s", args[0]))
}

func (c *partnershipAddCommand) Completions(input string) []string {
	return c.store.Current().Partners.Names()
}

type partnershipDeleteCommand struct {
	baseCommand
	store Store
}

func (c *partnershipDeleteCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 1, 1); !ok {
		return res
	}
	if err := c.store.DeletePartnership(args[0]); err != nil {
		return FromError(err)
	}
	return OK(fmt.Sprintf("partnership deleted: %s", args[0]))
}

func (c *partnershipDeleteCommand) Completions(input string) []string {
	return c.store.Current().Partnerships.Names()
}

type partnershipStoreCommand struct {
	baseCommand
	store Store
}

func (c *partnershipStoreCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 0, 0); !ok {
		return res
	}
	if err := c.store.Save(ctx); err != nil {
		return FromError(err)
	}
	return OK("partnerships stored")
}

type partnershipRefreshCommand struct {
	baseCommand
	store Store
}

func (c *partnershipRefreshCommand) Execute(ctx context.Context, args []string) Result {
	if res, ok := c.checkArgs(args, 0, 0); !ok {
		return res
	}
	if err := c.store.Refresh(ctx); err != nil {
		return FromError(err)
	}
	return OK("partnerships refreshed")
}
