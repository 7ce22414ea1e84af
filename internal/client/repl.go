package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/home"
	"github.com/surplusmkt/surplus/internal/model"
)

// Home runs the interactive marketplace view on top of the current session.
func Home() error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	c, err := NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach Surplus endpoint")
	}

	if err = Refresh(c, &cfg); err != nil {
		return err
	}

	return runHome(NewCollaborators(c, cfg))
}

// A replNavigator ends the command loop when the page navigates away.
type replNavigator struct {
	once sync.Once
	done chan struct{}
}

func (n *replNavigator) GoTo(_ string) {
	n.once.Do(func() { close(n.done) })
}

// A watchedBackend taps the item subscription so the prompt can tell the user
// when the snapshot changed underneath them.
type watchedBackend struct {
	home.Backend
	notify func()
}

func (b watchedBackend) SubscribeItems(ctx context.Context, onChange func([]*model.Item), onError func(error)) (func(), error) {
	return b.Backend.SubscribeItems(ctx, func(items []*model.Item) {
		onChange(items)
		b.notify()
	}, onError)
}

func runHome(collab *Collaborators) error {
	rl, err := readline.New("surplus> ")
	if err != nil {
		return errors.Wrap(err, "could not initialize prompt")
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	nav := &replNavigator{done: done}

	var page *home.Home

	// Snapshots arrive in bursts, one notification line is enough.
	debounced := debounce.New(300 * time.Millisecond)
	backend := watchedBackend{
		Backend: collab,
		notify: func() {
			debounced(func() {
				fmt.Fprintf(rl.Stdout(), "%d item(s) in view, type 'ls' to list them\n", len(page.Items()))
				rl.Refresh()
			})
		},
	}

	page = home.New(collab, nav, backend, nil)
	page.Mount(ctx)
	defer page.Unmount()

	printHelp(rl.Stdout())

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp(rl.Stdout())
		case "ls":
			printItems(rl.Stdout(), page.Items())
		case "search":
			page.SetNameQuery(strings.Join(args[1:], " "))
			printItems(rl.Stdout(), page.Items())
		case "loc":
			page.SetLocationQuery(strings.Join(args[1:], " "))
			printItems(rl.Stdout(), page.Items())
		case "mine":
			if page.ToggleScopeToSelf() {
				fmt.Fprintln(rl.Stdout(), "Showing your items only")
			} else {
				fmt.Fprintln(rl.Stdout(), "Showing all items")
			}
			printItems(rl.Stdout(), page.Items())
		case "add":
			addItem(ctx, page)
		case "rm":
			if len(args) != 2 {
				fmt.Fprintln(rl.Stdout(), "usage: rm ID")
				continue
			}
			if item := findItem(page.Items(), args[1]); item != nil {
				page.DeleteItem(ctx, item.ID)
			} else {
				fmt.Fprintln(rl.Stdout(), "no such item")
			}
		case "rmall":
			page.DeleteAll(ctx)
		case "desc":
			if len(args) != 2 {
				fmt.Fprintln(rl.Stdout(), "usage: desc ID")
				continue
			}
			if item := findItem(page.Items(), args[1]); item != nil {
				page.ShowDescription(item.Description)
				text, _ := page.Description()
				fmt.Fprintln(rl.Stdout(), text)
				page.CloseDescription()
			} else {
				fmt.Fprintln(rl.Stdout(), "no such item")
			}
		case "profile":
			profileCommand(ctx, rl.Stdout(), page, args[1:])
		case "logout":
			page.LogOut()
		case "exit", "quit":
			return nil
		default:
			fmt.Fprintf(rl.Stdout(), "unknown command %q, type 'help'\n", args[0])
		}

		if alert := page.Alert(); alert != "" {
			fmt.Fprintln(rl.Stdout(), alert)
			page.DismissAlert()
		}

		select {
		case <-done:
			fmt.Fprintln(rl.Stdout(), "Signed out")
			return nil
		default:
		}
	}
}

func addItem(ctx context.Context, page *home.Home) {
	page.OpenAddModal()

	var form home.ItemForm
	prompts := []struct {
		label string
		field *string
	}{
		{"Name: ", &form.Name},
		{"Quantity: ", &form.Quantity},
		{"Price: ", &form.Price},
		{"Location: ", &form.Location},
		{"Description: ", &form.Description},
	}
	for _, prompt := range prompts {
		value, err := readline.Line(prompt.label)
		if err != nil {
			page.CloseAddModal()
			return
		}
		*prompt.field = value
	}

	page.SetItemForm(form)
	page.SubmitItem(ctx)
}

func profileCommand(ctx context.Context, w io.Writer, page *home.Home, args []string) {
	if len(args) == 0 {
		profile := page.Profile()
		fmt.Fprintf(w, "username:   %s\n", profile.Username)
		fmt.Fprintf(w, "contact:    %s\n", profile.Contact)
		fmt.Fprintf(w, "payment_id: %s\n", profile.PaymentID)
		return
	}

	if len(args) < 3 || args[0] != "set" {
		fmt.Fprintln(w, "usage: profile [set username|contact|payment_id VALUE]")
		return
	}

	field := home.Field(args[1])
	switch field {
	case home.FieldUsername, home.FieldContact, home.FieldPaymentID:
	default:
		fmt.Fprintf(w, "unknown field %q\n", args[1])
		return
	}

	page.BeginEdit(field)
	page.SetField(field, strings.Join(args[2:], " "))
	page.SaveField(ctx, field)
}

func findItem(items []*model.Item, prefix string) *model.Item {
	for _, item := range items {
		if strings.HasPrefix(item.ID, prefix) {
			return item
		}
	}
	return nil
}

func printItems(w io.Writer, items []*model.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no items")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "%.8s  %-24s  x%-6s  %-10s  %s (%s)\n",
			item.ID, item.Name, item.Quantity, item.Price, item.Location, item.Username)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `Commands:
  ls                    list items in the current view
  search [QUERY]        filter items by name
  loc [QUERY]           filter items by location
  mine                  toggle showing your items only
  add                   add a new item
  rm ID                 delete one item
  rmall                 delete every item
  desc ID               show an item description
  profile               show your seller profile
  profile set F VALUE   save one profile field
  logout                sign out
  exit                  leave without signing out
`)
}
