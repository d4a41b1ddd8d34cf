// Command shopctl управляет магазином через ShopService: каталог, корзина, оформление и счёт.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcsvc "github.com/vladislavdragonenkov/partshop/internal/service/grpc"
	"github.com/vladislavdragonenkov/partshop/internal/version"
)

const (
	defaultAddr    = "localhost:50051"
	defaultTimeout = 5 * time.Second
)

var errUsage = errors.New("usage")

const usage = `usage: shopctl [-addr host:port] [-timeout 5s] <command> [args]

commands:
  products [-brand B] [-model M] [-part P] [-year Y] [-q text]
  product <id>
  options [-brand B] [-model M]
  add <id>
  qty <id> <quantity>
  remove <id>
  clear
  cart
  checkout -name N -address A -phone P
  invoice
  register -username U -password P -email E -fullname F -dob YYYY-MM-DD
  login <username> <password>
  logout
  whoami
  watch [-brokers b1,b2] [-topic T] [-group G]
  version
`

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		if st, ok := status.FromError(err); ok {
			_, _ = fmt.Fprintf(os.Stderr, "shopctl: %s: %s\n", st.Code(), st.Message())
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "shopctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("shopctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", envOr("SHOP_ADDR", defaultAddr), "ShopService gRPC address")
	timeout := fs.Duration("timeout", defaultTimeout, "per-call timeout")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	switch name {
	case "watch":
		return runWatch(ctx, rest, out)
	case "version":
		_, err := fmt.Fprintln(out, version.String())
		return err
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", *addr, err)
	}
	defer conn.Close()

	callCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	return execute(callCtx, grpcsvc.NewShopServiceClient(conn), name, rest, out)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
