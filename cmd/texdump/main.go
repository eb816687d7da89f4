// Command texdump is a sample embedder of the tex package: it feeds a
// file (or stdin) through an Interpreter and dumps every token the
// dispatcher would have routed to the Stomach, plus any error's
// token-stack trace. Grounded on cmd/mysqldef/mysqldef.go's
// go-flags option-struct-plus-flags.NewParser CLI shape and its
// golang.org/x/term use (here to decide whether stdin is interactive
// rather than to prompt for a password).
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/texcore/texcore/locator"
	"github.com/texcore/texcore/params"
	"github.com/texcore/texcore/tex"
	"github.com/texcore/texcore/texdebug"
)

var version string

type options struct {
	Input      string `long:"input" description:"TeX source file to interpret" value-name:"path" default:"-"`
	Scheme     string `long:"scheme" description:"YAML catcode scheme to load instead of plain-TeX defaults" value-name:"path"`
	Params     string `long:"params" description:"YAML Params document" value-name:"path"`
	SearchPath string `long:"searchpath" description:"Comma-separated directories searched for \\input targets" value-name:"dirs"`
	DumpTokens bool   `long:"dump-tokens" description:"Pretty-print every emitted token"`
	Help       bool   `long:"help" description:"Show this help"`
	Version    bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) *options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options]"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return &opts
}

func main() {
	opts := parseOptions(os.Args[1:])

	scheme := tex.NewPlainTeXScheme()
	if opts.Scheme != "" {
		data, err := os.ReadFile(opts.Scheme)
		if err != nil {
			log.Fatal(err)
		}
		scheme, err = tex.LoadSchemeYAML(data)
		if err != nil {
			log.Fatal(err)
		}
	}

	p := params.Default()
	if opts.Params != "" {
		var err error
		p, err = params.Load(opts.Params)
		if err != nil {
			log.Fatal(err)
		}
	}

	var dirs []string
	if opts.SearchPath != "" {
		dirs = strings.Split(opts.SearchPath, ",")
	}
	loc := locator.NewSearchPathLocator(dirs...)

	in := tex.NewInterpreter(scheme, p, loc)

	if opts.Input == "-" || opts.Input == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Fprintln(os.Stderr, "reading TeX source from stdin (Ctrl-D to end)...")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		in.Mouth.PushString(string(data))
	} else {
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			log.Fatal(err)
		}
		vf := in.Files.Overlay(opts.Input, data)
		in.Mouth.PushFile(vf, opts.Input)
	}

	if err := in.Run(); err != nil {
		texdebug.Trace(os.Stderr, err)
		os.Exit(1)
	}

	if opts.DumpTokens {
		texdebug.NewDumper(os.Stdout).Tokens(in.Emitted)
	}
}
