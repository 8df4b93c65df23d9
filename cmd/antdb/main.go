// Command antdb is a read-only query engine over the SQLite on-disk file
// format: given a database file and a single command, it answers
// dot-commands and a restricted SELECT subset.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/Aftershock007/antdb/internal/cli"
	"github.com/Aftershock007/antdb/internal/query"
	"github.com/Aftershock007/antdb/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("antdb", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "enable debug-level tracing of query evaluation")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	positional := fs.Args()
	if len(positional) != 2 {
		fmt.Fprintln(os.Stderr, "usage: antdb <db-path> <command>")
		return 1
	}
	dbPath, command := positional[0], positional[1]

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	se, err := storage.Open(dbPath)
	if err != nil {
		log.WithFields(logrus.Fields{"kind": "storage"}).WithError(err).Error("failed to open database")
		return 1
	}
	defer se.Close()

	qe := query.NewEngine(se, log)
	dispatcher := cli.New(se, qe)

	output, err := dispatcher.Dispatch(context.Background(), command)
	if err != nil {
		log.WithFields(logrus.Fields{"kind": kindOf(err)}).WithError(err).Error("command failed")
		return 1
	}

	if output != "" {
		fmt.Println(output)
	}
	return 0
}

// kindOf extracts the error-taxonomy kind for the single structured
// diagnostic line, falling back to "unknown" for errors outside this
// module's own typed error shapes.
func kindOf(err error) string {
	switch e := err.(type) {
	case *storage.Error:
		return "storage:" + e.Kind.String()
	case *query.Error:
		return "query:" + e.Kind.String()
	default:
		return "unknown"
	}
}
