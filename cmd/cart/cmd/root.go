// Package cmd provides the terminal cart commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/storage/file"
	"github.com/your-org/storefront/internal/interfaces/cartview"
	"github.com/your-org/storefront/internal/pkg/logger"
)

// app is the cart wiring shared by every subcommand
type app struct {
	cfg    *config.CLIConfig
	logger *logrus.Logger
	store  *cart.Store
	binder *cartview.Binder
	close  func() error
}

type appKey struct{}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "cart",
		Short: "Storefront cart in the terminal",
		Long: `cart keeps a shopping cart on this machine and checks it out through
the storefront server.

The cart is stored in ~/.storefront/cart.json by default. Use --storage redis
to share one cart between machines.

Settings come from flags, then environment (CART_STORAGE, CART_DIR,
STOREFRONT_URL, CURRENCY_SYMBOL, REDIS_*), then ~/.storefront/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, v, cfgFile)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return appFrom(cmd).close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.storefront/config.yaml)")
	flags.String("storage", config.StorageFile, "cart storage: file, redis or memory")
	flags.String("dir", "", "directory for file storage")
	flags.String("server", "", "storefront server URL")
	flags.String("currency-symbol", "", "currency symbol for prices")
	_ = v.BindPFlag("storage", flags.Lookup("storage"))
	_ = v.BindPFlag("dir", flags.Lookup("dir"))
	_ = v.BindPFlag("server", flags.Lookup("server"))
	_ = v.BindPFlag("currency_symbol", flags.Lookup("currency-symbol"))

	rootCmd.AddCommand(
		newShowCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newSetCmd(),
		newIncCmd(),
		newDecCmd(),
		newClearCmd(),
		newCheckoutCmd(),
	)

	return rootCmd
}

func openApp(cmd *cobra.Command, v *viper.Viper, cfgFile string) (*app, error) {
	cfg, err := config.LoadCLI(v, cfgFile)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithOutput(cfg.Logging, cmd.ErrOrStderr())
	ctx := cmd.Context()

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store := cart.NewStore(ctx, storage, &stderrNotifier{out: cmd.ErrOrStderr()}, log)
	renderer := cartview.NewTextRenderer(cmd.OutOrStdout())

	return &app{
		cfg:    cfg,
		logger: log,
		store:  store,
		binder: cartview.NewBinder(store, cfg.Client.CurrencySymbol, renderer.Render),
		close:  closeStorage,
	}, nil
}

func openStorage(ctx context.Context, cfg *config.CLIConfig, log *logrus.Logger) (cart.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Client.Storage {
	case config.StorageRedis:
		client, err := redis.NewConnection(ctx, cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewCartStorage(client, cfg.Client.Namespace), client.Close, nil
	case config.StorageMemory:
		return cart.NewMemoryStorage(), noop, nil
	default:
		return file.NewOSStorage(cfg.Client.Dir), noop, nil
	}
}

func appFrom(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

// report logs a failed save; the cart on screen is still the current one
func (a *app) report(err error) {
	if err != nil {
		a.logger.WithError(err).Warn("Cart change was not saved")
	}
}

type stderrNotifier struct {
	out io.Writer
}

func (n *stderrNotifier) ItemAdded(item cart.LineItem) {
	fmt.Fprintf(n.out, "Added %s to cart\n", item.Name)
}
