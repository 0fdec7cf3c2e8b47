package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sopds/catalog/pkg/catalog"
	"github.com/sopds/catalog/pkg/fb2"
)

func main() {
	log := logger.New()
	ctx := log.WithContext(context.Background())

	var opts struct {
		Annotation bool `short:"a" long:"annotation" description:"Print the annotation text"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/parse-fb2 [-a] <path/to/file.fb2>")
		os.Exit(1)
	}

	meta, err := fb2.ParseFile(ctx, args[0])
	if err != nil {
		log.Err(err).Fatal("fb2 parse error")
	}

	authors := make([]string, 0, len(meta.Authors))
	for _, a := range meta.Authors {
		authors = append(authors, a.FullName())
	}
	date := "-"
	if d := catalog.ParseDate(meta.Date); d != nil {
		date = d.Format("2006-01-02")
	}
	number := "-"
	if meta.SeriesNumber != nil {
		number = fmt.Sprint(*meta.SeriesNumber)
	}

	fmt.Printf("Title: %s\n", meta.Title)
	fmt.Printf("Author(s): %s\n", strings.Join(authors, "; "))
	fmt.Printf("Genres: %s\n", strings.Join(meta.Genres, ", "))
	fmt.Printf("Lang: %s\n", meta.Lang)
	fmt.Printf("Date: %q (%s)\n", meta.Date, date)
	fmt.Printf("ISBN: %s\n", meta.ISBN)
	fmt.Printf("Series: %s #%s\n", meta.SeriesName, number)
	if opts.Annotation {
		fmt.Printf("Annotation: %s\n", meta.Annotation)
	}
}
