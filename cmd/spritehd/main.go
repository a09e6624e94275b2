package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bodgit/spritehd"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
)

const defaultConfig = "spritehd.yaml"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// setup loads the configuration, selects the targets named on the command
// line and opens the cache if one is configured. The returned function
// closes the cache.
func setup(c *cli.Context) (*spritehd.SpriteHD, []spritehd.Target, func(), error) {
	logger := newLogger(c)

	_, _ = maxprocs.Set(maxprocs.Logger(logger.Printf))

	cfg, err := spritehd.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}

	targets, err := cfg.Select(c.Args().Slice()...)
	if err != nil {
		return nil, nil, nil, err
	}

	var cache *spritehd.Cache
	closer := func() {}
	if file := c.String("cache"); file != "" {
		if cache, err = spritehd.NewCache(file); err != nil {
			return nil, nil, nil, err
		}
		closer = func() {
			if err := cache.Close(); err != nil {
				logger.Println(err)
			}
		}
	}

	return spritehd.New(cache, logger), targets, closer, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func report(r *spritehd.Result) {
	if r.Cached {
		fmt.Printf("%s: up to date\n", r.Target)
		return
	}
	for _, s := range r.Sheets {
		fmt.Printf("%s: %s, %s\n", r.Target, s.Image, s.Style)
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "spritehd"
	app.Usage = "HD and LD sprite sheet generator"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"SPRITEHD_CONFIG"},
			Value:   defaultConfig,
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"SPRITEHD_CACHE"},
			Usage:   "path to build cache database, disabled if empty",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "build",
			Usage:       "Build sprite sheets and stylesheets",
			Description: "Builds the named targets, or every target if none are named.",
			ArgsUsage:   "[TARGET...]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "force",
					Aliases: []string{"f"},
					Usage:   "build even if the cache says the target is up to date",
				},
			},
			Action: func(c *cli.Context) error {
				s, targets, closer, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				ctx, cancel := signalContext()
				defer cancel()

				results, err := s.BuildAll(ctx, targets, c.Bool("force"))
				for _, r := range results {
					report(r)
				}
				if err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "check",
			Usage:       "Report source images with an odd width or height",
			Description: "Odd sized images cannot be halved exactly for the LD sprite sheet.",
			ArgsUsage:   "[TARGET...]",
			Action: func(c *cli.Context) error {
				s, targets, closer, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				var fail bool
				for _, t := range targets {
					odd, err := s.Check(t)
					if err != nil {
						return cli.Exit(err, 1)
					}
					for _, i := range odd {
						fmt.Printf("%s: %s (%dx%d)\n", t.Name, i.File, i.Width, i.Height)
					}
					o := t.Options
					if len(odd) > 0 && o.FailOnOddImageSize != nil && *o.FailOnOddImageSize {
						fail = true
					}
				}

				if fail {
					return cli.Exit(spritehd.ErrOddImageSize, 1)
				}

				return nil
			},
		},
		{
			Name:        "watch",
			Usage:       "Build, then rebuild whenever source images change",
			Description: "Runs until interrupted.",
			ArgsUsage:   "[TARGET...]",
			Action: func(c *cli.Context) error {
				s, targets, closer, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				ctx, cancel := signalContext()
				defer cancel()

				if err := s.Watch(ctx, targets, func(r *spritehd.Result, err error) {
					if err != nil {
						fmt.Fprintln(os.Stderr, err)
						return
					}
					report(r)
				}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
