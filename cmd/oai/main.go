package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/kardeiz/oai"
	"github.com/mitchellh/go-homedir"
)

type options struct {
	identifier string
	params     oai.Params
	firstPage  bool
	window     string
	maxRequest int
	strict     bool
}

// run executes the requested operation and writes JSON to stdout.
func run[M any](ctx context.Context, h *oai.Harvester[M], opts options) error {
	h.MaxRequests = opts.maxRequest
	h.CheckListSize = opts.strict

	var v interface{}
	var err error
	switch {
	case opts.identifier != "":
		v, err = h.GetRecord(ctx, opts.identifier)
	case opts.firstPage:
		v, err = h.ListRecords(ctx, opts.params)
	case opts.window == "weekly":
		v, err = h.ListWindows(ctx, opts.params, oai.Window.Weekly)
	case opts.window == "monthly":
		v, err = h.ListWindows(ctx, opts.params, oai.Window.Monthly)
	case opts.window == "":
		v, err = h.ListAll(ctx, opts.params)
	default:
		return fmt.Errorf("unknown window: %s", opts.window)
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	home, err := homedir.Dir()
	if err != nil {
		log.Fatal(err)
	}

	cacheDir := flag.String("cache", filepath.Join(home, oai.DefaultCacheDir), "response cache dir")
	noCache := flag.Bool("no-cache", false, "do not cache responses")
	identifier := flag.String("id", "", "fetch a single record by identifier")
	set := flag.String("set", "", "OAI set")
	prefix := flag.String("prefix", oai.DefaultFormat, "OAI metadataPrefix, oai_dc and xoai are parsed, others are kept as XML")
	from := flag.String("from", "", "OAI from")
	until := flag.String("until", "", "OAI until")
	granularity := flag.String("granularity", "day", "date granularity of the repository, day or second")
	firstPage := flag.Bool("page", false, "fetch only the first page")
	window := flag.String("window", "", "harvest in weekly or monthly windows, requires -from and -until")
	maxRequests := flag.Int("max", 0, "maximum number of requests per list, zero means no limit")
	strict := flag.Bool("strict", false, "fail, if the record count differs from completeListSize")
	showVersion := flag.Bool("v", false, "prints current program version")
	verbose := flag.Bool("verbose", false, "more output")

	flag.Parse()

	if *showVersion {
		fmt.Println(oai.Version)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		log.Fatal("endpoint URL required")
	}

	oai.Verbose = *verbose

	var clientOpts []oai.Option
	switch *granularity {
	case "day":
		clientOpts = append(clientOpts, oai.WithGranularity(oai.DayGranularity))
	case "second":
		clientOpts = append(clientOpts, oai.WithGranularity(oai.SecondGranularity))
	default:
		log.Fatalf("unknown granularity: %s", *granularity)
	}
	if !*noCache {
		doer, err := oai.NewCachingDoer(*cacheDir, oai.NewPester())
		if err != nil {
			log.Fatal(err)
		}
		clientOpts = append(clientOpts, oai.WithDoer(doer))
	}

	client, err := oai.NewClient(flag.Arg(0), clientOpts...)
	if err != nil {
		log.Fatal(err)
	}

	opts := options{
		identifier: *identifier,
		params:     oai.Params{Set: *set},
		firstPage:  *firstPage,
		window:     *window,
		maxRequest: *maxRequests,
		strict:     *strict,
	}
	if *from != "" {
		if opts.params.From, err = time.Parse("2006-01-02", *from); err != nil {
			log.Fatal(err)
		}
	}
	if *until != "" {
		if opts.params.Until, err = time.Parse("2006-01-02", *until); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *prefix {
	case "oai_dc":
		err = run(ctx, oai.NewHarvester[oai.Dc](client, oai.DublinCore{}), opts)
	case "xoai":
		err = run(ctx, oai.NewHarvester[oai.XoaiElements](client, oai.Xoai{}), opts)
	default:
		err = run(ctx, oai.NewHarvester[string](client, oai.Raw{Name: *prefix}), opts)
	}
	if err != nil {
		log.Fatal(err)
	}
}
