// Command spritectl inspects, compacts, converts and scripts sprite sheet
// documents.
//
//	spritectl info sheets/hero.yaml
//	spritectl compact -o out/ hero.yaml slime.json
//	spritectl run -script tidy -o hero.json hero.yaml
//	spritectl convert -to yaml slime.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/milk9111/spriteanim/config"
	"github.com/milk9111/spriteanim/sheets"
)

const usage = `usage: spritectl [-config file] <command> [flags] file...

commands:
  info     print frames, animations and compaction stats
  compact  drop duplicate and unreferenced frames
  run      run a tengo edit script against a sheet
  convert  re-encode a sheet as json or yaml
`

var errUsage = errors.New("spritectl: bad usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("spritectl: ")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// env carries what every subcommand needs.
type env struct {
	cfg    config.Session
	lib    sheets.Library
	stdout io.Writer
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("spritectl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "session config (yaml)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	e := &env{cfg: cfg, lib: sheets.Library{Dir: cfg.SheetsDir}, stdout: stdout}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "info":
		return e.info(cmdArgs)
	case "compact":
		return e.compact(cmdArgs)
	case "run":
		return e.runScript(cmdArgs)
	case "convert":
		return e.convert(cmdArgs)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}
