// Package router maps CLI command names to handlers.
package router

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"storefront/internal/handler"

	"github.com/rs/zerolog"
)

// Route is a named command.
type Route struct {
	Name  string
	Usage string
	Run   handler.Func
}

// Router dispatches a command line to its handler.
type Router struct {
	routes map[string]Route
	logger zerolog.Logger
}

// Handlers bundles every command handler.
type Handlers struct {
	Account *handler.AccountHandler
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Visitor *handler.VisitorHandler
	Admin   *handler.AdminHandler
}

// New creates a router with every storefront command registered.
func New(h Handlers, logger zerolog.Logger) *Router {
	r := &Router{
		routes: make(map[string]Route),
		logger: logger.With().Str("component", "router").Logger(),
	}

	// Identity
	r.Handle("guest", "show the guest id and active identity", h.Account.Guest)
	r.Handle("login", "-email e -password p", h.Account.Login)
	r.Handle("register", "-name n -email e -password p", h.Account.Register)
	r.Handle("logout", "sign out", h.Account.Logout)

	// Menu
	r.Handle("menu", "[-category id] [-special] [-all] [-grouped] [-search text]", h.Catalog.Menu)
	r.Handle("categories", "list menu categories", h.Catalog.Categories)
	r.Handle("cities", "list delivery cities", h.Catalog.Cities)

	// Cart and checkout
	r.Handle("cart", "show the cart", h.Cart.Show)
	r.Handle("cart-add", "-item id -price id [-qty n] | -staged", h.Cart.Add)
	r.Handle("cart-qty", "<line> <+|-|n>", h.Cart.Quantity)
	r.Handle("cart-remove", "<line>", h.Cart.Remove)
	r.Handle("coupon", "<code>", h.Cart.Coupon)
	r.Handle("address", "[-clear]", h.Cart.Address)
	r.Handle("checkout", "[-email] [-phone] [-city] [-state] [-zip] [-street] [-notes]", h.Cart.Checkout)

	// Orders
	r.Handle("track", "<token> [-watch] [-interval d]", h.Order.Track)
	r.Handle("orders", "[-status s] [-page n] [-per-page n]", h.Order.List)
	r.Handle("order", "<id>", h.Order.Get)
	r.Handle("advance", "<id> [-dry-run] [-to status -payment status]", h.Order.Advance)

	// Visitors
	r.Handle("visit", "[-path page/section,...] [-dwell d]", h.Visitor.Visit)
	r.Handle("visitors", "[visitor-id] [-page n] [-per-page n] [-from date] [-to date]", h.Visitor.List)
	r.Handle("analytics", "visitor analytics", h.Visitor.Analytics)

	// Admin
	r.Handle("dashboard", "admin dashboard", h.Admin.Dashboard)
	r.Handle("export", "orders|visitors [-out file.xlsx]", h.Admin.Export)

	return r
}

// Handle registers a command. Registering the same name twice panics.
func (r *Router) Handle(name, usage string, run handler.Func) {
	if _, ok := r.routes[name]; ok {
		panic("router: duplicate command " + name)
	}
	r.routes[name] = Route{Name: name, Usage: usage, Run: run}
}

// Run executes args[0] with the remaining arguments.
func (r *Router) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &handler.UsageError{Command: "storefront", Msg: "command is required"}
	}

	route, ok := r.routes[args[0]]
	if !ok {
		return &handler.UsageError{Command: "storefront", Msg: fmt.Sprintf("unknown command %q", args[0])}
	}

	return r.run(ctx, route, args[1:])
}

// run executes a route with panic recovery and logging.
func (r *Router) run(ctx context.Context, route Route, args []string) (err error) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().
				Interface("panic", p).
				Str("command", route.Name).
				Msg("panic recovered")
			err = fmt.Errorf("command %s panicked: %v", route.Name, p)
		}

		event := r.logger.Debug()
		if err != nil {
			event = r.logger.Warn().Err(err)
		}
		event.
			Str("command", route.Name).
			Dur("duration", time.Since(start)).
			Msg("command finished")
	}()

	return route.Run(ctx, args)
}

// Usage writes the command list.
func (r *Router) Usage(w io.Writer) {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: storefront <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, r.routes[name].Usage)
	}
}
