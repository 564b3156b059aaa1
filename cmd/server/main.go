// Command server runs the catalog compliance HTTP API and, when enabled, the
// Pub/Sub product-update consumer.
//
// Flags:
//
//	-migrate  apply pending database migrations before serving
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/catalog-compliance/internal/app"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending migrations before serving")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Options{Migrate: *migrate}); err != nil {
		log.Fatalf("server: %v", err)
	}
}
