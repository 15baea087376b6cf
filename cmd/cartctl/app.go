package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/homeclean-next/internal/client/alert"
	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/client/cart"
	"github.com/homeclean-next/internal/client/catalog"
	"github.com/homeclean-next/internal/client/checkout"
	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/client/session"
	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/constants"

	"github.com/shopspring/decimal"
)

const usage = `usage: cartctl <command> [flags]

commands:
  register  -email -password [-name] [-phone]
  login     -email -password [-remember]
  logout
  services  [-force]
  cart      [-force]
  add       -service ID [-variant ID] [-measurement N]
  qty       ITEM_ID QTY
  rm        ITEM_ID
  clear
  checkout  -date YYYY-MM-DD -time HH:MM -name -email -phone -address [-notes]
  bookings
`

var errUsage = errors.New("usage")

type app struct {
	out      io.Writer
	errOut   io.Writer
	api      *apiclient.Client
	session  *session.Session
	catalog  *catalog.Client
	cart     *cart.Orchestrator
	checkout *checkout.Service
}

func newApp(cfg config.ClientConfig, store localstore.Store, out, errOut io.Writer) *app {
	alerter := alert.Func(func(title, message string) {
		fmt.Fprintf(errOut, "[%s] %s\n", title, message)
	})
	api := apiclient.NewFromConfig(cfg, nil)
	sess := session.New(session.Options{Store: store, Auth: api, Alerter: alerter, Locale: cfg.Locale})
	api.SetTokenSource(sess)

	cat := catalog.New(catalog.Options{Fetcher: api, Store: store, TTL: cfg.CacheTTL(), Alerter: alerter, Locale: cfg.Locale})
	orchestrator := cart.New(cart.Options{
		Remote:  api,
		Auth:    sess,
		Store:   store,
		TTL:     cfg.CacheTTL(),
		Alerter: alerter,
		Locale:  cfg.Locale,
	})
	return &app{
		out:      out,
		errOut:   errOut,
		api:      api,
		session:  sess,
		catalog:  cat,
		cart:     orchestrator,
		checkout: checkout.New(checkout.Options{Booker: api, Cart: orchestrator, Alerter: alerter, Locale: cfg.Locale}),
	}
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return 2
	}
	// 先订阅再恢复，过期 token 的退出通知才能清掉上一位用户的缓存
	unbind := a.cart.Bind(a.session)
	defer unbind()
	if _, err := a.session.Restore(ctx); err != nil {
		fmt.Fprintf(a.errOut, "restore session: %v\n", err)
	}

	var err error
	switch args[0] {
	case "register":
		err = a.register(ctx, args[1:])
	case "login":
		err = a.login(ctx, args[1:])
	case "logout":
		err = a.session.SignOut(ctx)
	case "services":
		err = a.services(ctx, args[1:])
	case "cart":
		err = a.showCart(ctx, args[1:])
	case "add":
		err = a.add(ctx, args[1:])
	case "qty":
		err = a.quantity(ctx, args[1:])
	case "rm":
		err = a.remove(ctx, args[1:])
	case "clear":
		err = a.clear(ctx)
	case "checkout":
		err = a.doCheckout(ctx, args[1:])
	case "bookings":
		err = a.bookings(ctx)
	default:
		err = errUsage
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp):
		fmt.Fprint(a.errOut, usage)
		return 2
	default:
		fmt.Fprintf(a.errOut, "error: %v\n", err)
		return 1
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	remember := fs.Bool("remember", false, "long-lived token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.session.SignIn(ctx, *email, *password, *remember)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s\n", user.Email)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "contact phone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.session.Register(ctx, apiclient.RegisterRequest{
		Email:       *email,
		Password:    *password,
		DisplayName: *name,
		Phone:       *phone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered and signed in as %s\n", user.Email)
	return nil
}

func (a *app) services(ctx context.Context, args []string) error {
	fs := a.flags("services")
	force := fs.Bool("force", false, "bypass the local cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	services, err := a.catalog.Services(ctx, *force)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICING\tPRICE\tMINUTES")
	for _, svc := range services {
		price := svc.BasePrice.String()
		if strings.EqualFold(svc.PricingMode, constants.PricingModePerUnit) {
			price = fmt.Sprintf("%s/%s (min %s)", svc.UnitPrice.String(), svc.UnitLabel, svc.BasePrice.String())
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", svc.ID, svc.Title, svc.PricingMode, price, svc.DurationMinutes)
		for _, v := range svc.Variants {
			if v.IsActive {
				fmt.Fprintf(tw, "  %d\t  %s\t%s\t%s\t%d\n", v.ID, v.Name, v.PricingMode, v.Price.String(), v.DurationMinutes)
			}
		}
	}
	return tw.Flush()
}

func (a *app) showCart(ctx context.Context, args []string) error {
	fs := a.flags("cart")
	force := fs.Bool("force", false, "bypass the local cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.cart.Refresh(ctx, *force); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *app) printCart() {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tSERVICE\tTITLE\tQTY\tUNIT\tTOTAL")
	for _, line := range a.cart.Items() {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\n",
			line.ID, line.ServiceID, line.Title, line.Quantity, line.UnitAmount().String(), line.LineTotal().String())
	}
	_ = tw.Flush()
	summary := a.cart.Summary()
	fmt.Fprintf(a.out, "items: %d  total: %s\n", summary.TotalItems, summary.TotalPrice.String())
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flags("add")
	serviceID := fs.Uint("service", 0, "service id")
	variantID := fs.Uint("variant", 0, "variant id")
	measurement := fs.String("measurement", "", "measurement for per-unit services")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *serviceID == 0 {
		return errUsage
	}
	if a.session.IsAuthenticated() {
		if err := a.cart.Refresh(ctx, false); err != nil {
			return err
		}
	}
	svc, err := a.catalog.Find(ctx, *serviceID)
	if err != nil {
		return err
	}
	var m *decimal.Decimal
	if strings.TrimSpace(*measurement) != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(*measurement))
		if err != nil {
			return fmt.Errorf("invalid measurement %q", *measurement)
		}
		m = &d
	}
	var variant *uint
	if *variantID != 0 {
		v := *variantID
		variant = &v
	}
	quote, err := a.catalog.Quote(*svc, variant, m)
	if err != nil {
		return err
	}
	if err := a.cart.AddQuote(ctx, *quote); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *app) quantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	itemID, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	if err := a.cart.Refresh(ctx, false); err != nil {
		return err
	}
	if err := a.cart.UpdateQuantity(ctx, itemID, qty); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	itemID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.cart.Refresh(ctx, false); err != nil {
		return err
	}
	if err := a.cart.RemoveFromCart(ctx, itemID); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *app) clear(ctx context.Context) error {
	if err := a.cart.ClearCart(ctx); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *app) doCheckout(ctx context.Context, args []string) error {
	fs := a.flags("checkout")
	date := fs.String("date", "", "booking date YYYY-MM-DD")
	clock := fs.String("time", "", "booking time HH:MM")
	name := fs.String("name", "", "contact name")
	email := fs.String("email", "", "contact email")
	phone := fs.String("phone", "", "contact phone")
	address := fs.String("address", "", "service address")
	notes := fs.String("notes", "", "notes for the cleaner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.cart.Refresh(ctx, true); err != nil {
		return err
	}
	lines := a.cart.Items()
	input := checkout.Input{
		BookingDate:   *date,
		BookingTime:   *clock,
		CustomerName:  *name,
		CustomerEmail: *email,
		CustomerPhone: *phone,
		Address:       *address,
		Notes:         *notes,
	}
	for _, line := range lines {
		input.Items = append(input.Items, line.CartItem)
	}

	conf, err := a.checkout.Checkout(ctx, input)
	var partial *checkout.PartialFailureError
	if errors.As(err, &partial) {
		for _, b := range partial.Created {
			fmt.Fprintf(a.out, "created  %s  %s  %s\n", b.BookingNo, b.ServiceTitle, b.TotalAmount.String())
		}
		for _, f := range partial.Failed {
			fmt.Fprintf(a.out, "failed   %s  %v\n", f.Item.Title, f.Err)
		}
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s  total %s\n", conf.OrderID, conf.Total.String())
	for _, b := range conf.Bookings {
		fmt.Fprintf(a.out, "  %s  %s  %s %s\n", b.BookingNo, b.ServiceTitle, b.BookingDate, b.BookingTime)
	}
	return nil
}

func (a *app) bookings(ctx context.Context) error {
	bookings, err := a.api.ListBookings(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NO\tSERVICE\tDATE\tTIME\tSTATUS\tAMOUNT")
	for _, b := range bookings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", b.BookingNo, b.ServiceTitle, b.BookingDate, b.BookingTime, b.Status, b.TotalAmount.String())
	}
	return tw.Flush()
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
