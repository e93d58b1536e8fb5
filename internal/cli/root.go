// Package cli wires the commerce engine into shopper-facing commands.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/api"
	"github.com/hishamali-gh/storefront/internal/checkout"
	"github.com/hishamali-gh/storefront/internal/config"
	"github.com/hishamali-gh/storefront/internal/domain"
	"github.com/hishamali-gh/storefront/internal/logger"
	"github.com/hishamali-gh/storefront/internal/mirror"
	"github.com/hishamali-gh/storefront/internal/notify"
	"github.com/hishamali-gh/storefront/internal/pipeline"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	BaseURL string
	Token   string
	Verbose bool
}

// NewRootCommand creates the shop command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "shop",
		Short:         "Storefront client",
		Long:          "Browse the catalog, manage your cart and wishlist, and place orders against the storefront API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.BaseURL, "api", "", "storefront API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "access token (overrides SHOP_TOKEN)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		NewBrowseCommand(opts),
		NewShowCommand(opts),
		NewCartCommand(opts),
		NewWishlistCommand(opts),
		NewCheckoutCommand(opts),
	)

	return cmd
}

// app is the assembled engine behind one command invocation.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	client   *api.Client
	cart     *mirror.Mirror[domain.CartLine]
	wishlist *mirror.Mirror[domain.WishlistEntry]
	pipe     *pipeline.Pipeline
	orch     *checkout.Orchestrator
	notifier notify.Notifier
	out      io.Writer
}

func newApp(opts *RootOptions, out io.Writer) (*app, func(), error) {
	cfg := config.Load()
	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}
	if opts.Token != "" {
		cfg.Shop.Token = opts.Token
	}

	env := cfg.Shop.Env
	if opts.Verbose {
		env = "development"
	}
	log, err := logger.New(env)
	if err != nil {
		return nil, nil, err
	}

	client := api.NewClient(cfg.API.BaseURL, api.StaticCredentials(cfg.Shop.Token), cfg.API.Timeout, log)
	cart := mirror.NewCart(client, log)
	wishlist := mirror.NewWishlist(client, log)
	gate := pipeline.NewGate()

	a := &app{
		cfg:      cfg,
		logger:   log,
		client:   client,
		cart:     cart,
		wishlist: wishlist,
		pipe:     pipeline.New(client, cart, wishlist, gate, log),
		orch:     checkout.New(client, cart, gate, cfg.Shop.ShippingSurcharge, log),
		notifier: notify.NewConsole(out),
		out:      out,
	}
	cleanup := func() { log.Sync() }
	return a, cleanup, nil
}
