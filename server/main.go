package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/MarcoClaps/vrptw"
	"github.com/MarcoClaps/vrptw/api"
	"github.com/MarcoClaps/vrptw/store"
)

func main() {
	app := cli.NewApp()
	app.Name = "server"
	app.Usage = "serve the VRPTW engine over HTTP"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "YAML config file"},
		cli.StringFlag{Name: "addr", Value: ":8080", EnvVar: "VRPTW_ADDR", Usage: "Listen address"},
		cli.StringFlag{Name: "db", EnvVar: "DATABASE_URL", Usage: "Postgres DSN; archives go to --dir when empty"},
		cli.StringFlag{Name: "dir", Value: "data", EnvVar: "VRPTW_DATA_DIR", Usage: "Archive directory of the file store"},
		cli.IntFlag{Name: "v", Value: vrptw.Verbosity, Usage: "Verbosity 1-3"},
	}
	app.Action = serve
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	vrptw.Verbosity = c.Int("v")
	cfg, err := vrptw.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	var st store.Store
	if dsn := c.String("db"); dsn != "" {
		pg, err := store.NewPostgres(dsn)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = pg.InitSchema(ctx)
		cancel()
		if err != nil {
			_ = pg.Close()
			return err
		}
		st = pg
		log.Printf("Archiving to postgres")
	} else {
		fs, err := store.NewFileStore(c.String("dir"))
		if err != nil {
			return err
		}
		st = fs
		log.Printf("Archiving to %s", c.String("dir"))
	}
	defer st.Close()

	s := api.NewServer(vrptw.NewEngine(cfg), st)
	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Printf("API listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
