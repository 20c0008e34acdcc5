package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kardeiz/oai"
	"github.com/mitchellh/go-homedir"
)

var Verbose bool

// summary is written for every endpoint, one JSON object per line.
type summary struct {
	Endpoint         string  `json:"endpoint"`
	Records          int     `json:"records"`
	Deleted          int     `json:"deleted"`
	Requests         int     `json:"requests"`
	CompleteListSize *uint64 `json:"complete_list_size,omitempty"`
	Err              string  `json:"err,omitempty"`
	Retryable        bool    `json:"retryable,omitempty"`
}

func harvest(ctx context.Context, doer oai.Doer, endpoint, set string) summary {
	s := summary{Endpoint: endpoint}
	client, err := oai.NewClient(endpoint, oai.WithDoer(doer))
	if err != nil {
		s.Err = err.Error()
		return s
	}
	h := oai.NewHarvester[oai.Dc](client, oai.DublinCore{})
	result, err := h.ListAll(ctx, oai.Params{Set: set})
	if err != nil {
		s.Err, s.Retryable = err.Error(), oai.IsRetryable(err)
		return s
	}
	s.Records, s.Requests, s.CompleteListSize = len(result.Records), result.Requests, result.CompleteListSize
	for _, r := range result.Records {
		if r.Header.Deleted {
			s.Deleted++
		}
	}
	return s
}

func worker(ctx context.Context, doer oai.Doer, set string, queue chan string, out chan summary, wg *sync.WaitGroup) {
	defer wg.Done()
	for endpoint := range queue {
		s := harvest(ctx, doer, endpoint, set)
		if Verbose {
			if s.Err != "" {
				log.Printf("failed %s: %s", endpoint, s.Err)
			} else {
				log.Printf("done: %s", endpoint)
			}
		}
		out <- s
	}
}

func writer(in chan summary, done chan bool) {
	enc := json.NewEncoder(os.Stdout)
	for s := range in {
		if err := enc.Encode(s); err != nil {
			log.Fatal(err)
		}
	}
	done <- true
}

func main() {
	home, err := homedir.Dir()
	if err != nil {
		log.Fatal(err)
	}

	workers := flag.Int("w", 8, "requests in parallel")
	set := flag.String("set", "", "OAI set to harvest from every endpoint")
	cacheDir := flag.String("cache", filepath.Join(home, oai.DefaultCacheDir), "response cache dir")
	verbose := flag.Bool("verbose", false, "be verbose")
	showVersion := flag.Bool("v", false, "prints current program version")

	flag.Parse()

	if *showVersion {
		fmt.Println(oai.Version)
		os.Exit(0)
	}

	Verbose = *verbose
	oai.Verbose = *verbose

	var reader io.Reader
	if flag.NArg() == 0 {
		reader = os.Stdin
	} else {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		reader = f
	}

	// One HTTP client and cache for all harvests.
	doer, err := oai.NewCachingDoer(*cacheDir, oai.NewPester())
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	queue := make(chan string)
	out := make(chan summary)
	done := make(chan bool)

	var wg sync.WaitGroup

	go writer(out, done)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go worker(ctx, doer, *set, queue, out, &wg)
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		endpoint := strings.TrimSpace(scanner.Text())
		if endpoint == "" {
			continue
		}
		queue <- endpoint
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}

	close(queue)
	wg.Wait()
	close(out)
	<-done
}
