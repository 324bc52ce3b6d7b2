package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/polzovatel/pagemap/internal/browser"
	"github.com/polzovatel/pagemap/internal/inspect"
	"github.com/polzovatel/pagemap/internal/model"
	"github.com/polzovatel/pagemap/internal/prompt"
	"github.com/polzovatel/pagemap/internal/secrets"
	"github.com/polzovatel/pagemap/internal/store"
)

type cliOptions struct {
	url     string
	sites   string
	secrets string
	debug   bool
}

func main() {
	_ = godotenv.Load()
	opts := parseFlags()
	if opts.url == "" {
		fmt.Fprintln(os.Stderr, "usage: pagemap -url https://example.com [-sites DIR] [-secrets FILE]")
		os.Exit(2)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if !opts.debug {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	launcher, err := browser.NewLauncher(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("browser init")
	}
	defer launcher.Close()

	driver, err := launcher.NewDriver(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("browser driver")
	}
	defer driver.Close(ctx)

	secretStore, err := secrets.Open(opts.secrets)
	if err != nil {
		log.Fatal().Err(err).Msg("open secrets")
	}

	prompter := prompt.NewTerminal()
	prompter.Show = func() {
		summary, err := inspect.Collect(ctx, driver, 50)
		if err != nil {
			log.Debug().Err(err).Msg("inspect page")
			return
		}
		fmt.Println(summary)
	}

	session := model.NewSession(
		driver,
		store.New(opts.sites),
		prompter,
		secretStore,
		log.With().Str("comp", "model").Logger(),
	)

	page, err := model.VisitPage(ctx, session, opts.url, "")
	if err != nil {
		log.Fatal().Err(err).Msg("visit start url")
	}
	fmt.Printf("On %s\n", page)

	repl(ctx, session, driver, page)
}

func repl(ctx context.Context, session *model.Session, driver *browser.Playwright, page *model.Page) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("\n%s> ", page)
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch command {
		case "":
		case "quit", "exit":
			return

		case "visit":
			next, err := model.VisitPage(ctx, session, arg, "")
			if err != nil {
				log.Error().Err(err).Msg("visit")
				continue
			}
			page = next

		case "auto":
			next, err := model.Auto(ctx, session)
			if err != nil {
				log.Error().Err(err).Msg("auto")
				continue
			}
			page = next
			fmt.Printf("On %s\n", page)

		case "clean":
			removed := page.Clean(session, arg == "force")
			fmt.Printf("Removed %d locators\n", removed)

		case "inspect":
			summary, err := inspect.Collect(ctx, driver, 50)
			if err != nil {
				log.Error().Err(err).Msg("inspect")
				continue
			}
			fmt.Println(summary)

		case "actions":
			for _, action := range page.Actions {
				if action.Valid() {
					fmt.Println(action)
				}
			}

		case "text":
			fmt.Println(page.Text(ctx, session))

		default:
			next, changed, err := page.Perform(ctx, session, command)
			if errors.Is(err, model.ErrNoSuchAction) {
				fmt.Printf("Unknown command %q (try verb_name, visit, auto, clean, inspect, actions, text, quit)\n", command)
				continue
			}
			if err != nil {
				log.Error().Err(err).Str("action", command).Msg("perform")
				continue
			}
			page = next
			if changed {
				fmt.Printf("On %s\n", page)
			}
		}
	}
}

func parseFlags() cliOptions {
	url := flag.String("url", "", "Start URL to visit")
	sites := flag.String("sites", ".", "Directory holding the sites/ page records")
	secretsPath := flag.String("secrets", ".pagemap-secrets.yml", "Path to the secret store")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()
	return cliOptions{
		url:     strings.TrimSpace(*url),
		sites:   strings.TrimSpace(*sites),
		secrets: strings.TrimSpace(*secretsPath),
		debug:   *debug,
	}
}
