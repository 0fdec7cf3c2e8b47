package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sopds/catalog/pkg/archive"
	"github.com/sopds/catalog/pkg/formats"
)

func main() {
	log := logger.New()

	var opts struct {
		Encoding string   `short:"e" long:"encoding" default:"cp866" description:"Encoding of entry names without the UTF-8 flag"`
		Formats  []string `short:"f" long:"format" description:"Only list entries with this extension (repeatable)"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/list-archive [-e cp866] [-f fb2] <path/to/archive.zip>")
		os.Exit(1)
	}

	keep := func(string) bool { return true }
	if len(opts.Formats) > 0 {
		keep = formats.NewClassifier(opts.Formats, false).IsSupportedEntry
	}

	err = archive.With(args[0], opts.Encoding, func(a *archive.Archive) error {
		for _, e := range a.Entries(keep) {
			fmt.Printf("%10d  %s\n", e.Size, e.Name)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Fatal("archive error")
	}
}
