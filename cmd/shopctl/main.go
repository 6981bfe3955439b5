// shopctl is a thin command-line front end over the client SDK. It wires the
// full stack (config, logger, store, event bus, gateway, session, cart) the
// same way an embedding application would, then runs a single command.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	cartapp "github.com/shopsphere/client/internal/application/cart"
	sessionapp "github.com/shopsphere/client/internal/application/session"
	"github.com/shopsphere/client/internal/domain/identity"
	"github.com/shopsphere/client/internal/infrastructure/config"
	"github.com/shopsphere/client/internal/infrastructure/event"
	"github.com/shopsphere/client/internal/infrastructure/gateway"
	"github.com/shopsphere/client/internal/infrastructure/logger"
	"github.com/shopsphere/client/internal/infrastructure/metrics"
	"github.com/shopsphere/client/internal/infrastructure/storage"
	"github.com/shopsphere/client/internal/mapping"
)

const usage = `usage: shopctl <command> [args]

commands:
  login <email> <password>        sign in
  register <email> <password> <first> <last>
  logout                          sign out
  whoami                          show the current session
  products                        list the catalog
  cart                            show the cart
  cart-add <product-id> [color] [qty]
  cart-remove <product-id>
  cart-qty <product-id> <qty>
  cart-clear
  orders                          list my orders
  watch                           follow session changes from other instances
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the client-state store
	var store storage.Store
	switch cfg.Storage.Backend {
	case "redis":
		store, err = storage.NewRedisStore(ctx, cfg.Storage.Addr(), cfg.Storage.Password, cfg.Storage.DB, cfg.Storage.Namespace, log)
		if err != nil {
			log.Fatal("Failed to connect to redis store", zap.Error(err))
		}
	default:
		store = storage.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing store", zap.Error(err))
		}
	}()

	// Event bus and metrics
	bus := event.NewInMemoryEventBus(log)
	collector := metrics.NewCollector(prometheus.NewRegistry())

	// Session manager first: it supplies the bearer token to the gateway.
	manager := sessionapp.NewManager(nil, store, bus, func(resp gateway.LoginResponse) (identity.AuthUser, error) {
		return mapping.AuthUser(resp.User)
	}, cfg.OAuth.ClientID, log)

	api, err := gateway.New(gateway.Config{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.RequestTimeout,
		RateLimitRPS: cfg.API.RateLimitRPS,
	}, manager, collector, log)
	if err != nil {
		log.Fatal("Failed to create gateway", zap.Error(err))
	}
	manager.SetAPI(api)

	engine := cartapp.NewEngine(api, store, bus, log)

	if err := manager.Restore(ctx); err != nil {
		log.Warn("Failed to restore session", zap.Error(err))
	}

	if err := run(ctx, os.Args[1], os.Args[2:], manager, engine, api); err != nil {
		log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, manager *sessionapp.Manager, engine *cartapp.Engine, api *gateway.Client) error {
	switch command {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <email> <password>")
		}
		session, nav, err := manager.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s %s <%s>\n", session.User.FirstName, session.User.LastName, session.User.Email)
		if nav.HardReset {
			fmt.Printf("admin session: reload into %s\n", nav.Path)
		}
		return nil

	case "register":
		if len(args) != 4 {
			return fmt.Errorf("register needs <email> <password> <first> <last>")
		}
		msg, err := manager.Register(ctx, sessionapp.RegistrationInput{
			Email: args[0], Password: args[1], FirstName: args[2], LastName: args[3],
		})
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "logout":
		return manager.Logout(ctx)

	case "whoami":
		session, ok := manager.Current()
		if !ok {
			fmt.Println("not signed in")
			return nil
		}
		if expiry, known := manager.ExpiresAt(); known {
			fmt.Printf("%s <%s> roles=%v company=%s (token expires %s)\n",
				session.User.ID, session.User.Email, session.User.Roles, session.User.CompanyID,
				expiry.Format(time.RFC3339))
			return nil
		}
		fmt.Printf("%s <%s> roles=%v company=%s\n",
			session.User.ID, session.User.Email, session.User.Roles, session.User.CompanyID)
		return nil

	case "products":
		payloads, err := api.ListProducts(ctx)
		if err != nil {
			return err
		}
		products, err := mapping.Products(payloads)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%s  %-30s %s\n", p.ID, p.Name, p.Price.StringFixed(2))
		}
		return nil

	case "cart":
		snapshot, err := engine.Load(ctx)
		if err != nil {
			return err
		}
		return printJSON(snapshot)

	case "cart-add":
		if len(args) < 1 {
			return fmt.Errorf("cart-add needs <product-id>")
		}
		payload, err := api.GetProduct(ctx, args[0])
		if err != nil {
			return err
		}
		product, err := mapping.Product(payload)
		if err != nil {
			return err
		}
		color := ""
		if len(args) > 1 {
			color = args[1]
		}
		qty := 0
		if len(args) > 2 {
			if _, err := fmt.Sscanf(args[2], "%d", &qty); err != nil {
				return fmt.Errorf("bad quantity %q", args[2])
			}
		}
		snapshot, err := engine.Add(ctx, product, color, qty)
		if err != nil {
			return err
		}
		return printJSON(snapshot)

	case "cart-remove":
		if len(args) != 1 {
			return fmt.Errorf("cart-remove needs <product-id>")
		}
		snapshot, err := engine.Remove(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(snapshot)

	case "cart-qty":
		if len(args) != 2 {
			return fmt.Errorf("cart-qty needs <product-id> <qty>")
		}
		qty := 0
		if _, err := fmt.Sscanf(args[1], "%d", &qty); err != nil {
			return fmt.Errorf("bad quantity %q", args[1])
		}
		snapshot, err := engine.UpdateQuantity(ctx, args[0], qty)
		if err != nil {
			return err
		}
		return printJSON(snapshot)

	case "cart-clear":
		snapshot, err := engine.Clear(ctx)
		if err != nil {
			return err
		}
		return printJSON(snapshot)

	case "orders":
		payloads, err := api.ListOrders(ctx)
		if err != nil {
			return err
		}
		orders, err := mapping.Orders(payloads)
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Printf("%s  %-10s %s\n", o.ID, o.Status, o.Total.StringFixed(2))
		}
		return nil

	case "watch":
		if err := manager.Watch(ctx); err != nil {
			return err
		}
		fmt.Println("watching session changes, ctrl-c to stop")
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
