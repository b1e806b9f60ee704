// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/ezrec/esil/config"
	"github.com/ezrec/esil/emulator"
	"github.com/ezrec/esil/esil"
	"github.com/ezrec/esil/translate"
)

var log = commonlog.GetLogger("esil.cmd")

func main() {
	var profile string
	var expr string
	var script string
	var listing string
	var stats string
	var offset uint64
	var verbose bool
	var lang string

	flag.StringVar(&profile, "c", "", "Machine profile (.toml)")
	flag.StringVar(&expr, "e", "", "ESIL string to evaluate")
	flag.StringVar(&script, "s", "", "Starlark interrupt handlers, overrides the profile")
	flag.StringVar(&listing, "l", "", "Listing of '<address> <esil>' lines to run")
	flag.StringVar(&stats, "stats", "", "Write access statistics (CBOR) to this file")
	flag.Uint64Var(&offset, "a", 0, "Address of the evaluated instruction")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47), defaults to the environment locale")

	flag.Parse()

	if flag.NArg() != 0 {
		fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	verbosity := 0
	if verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	conf := config.Default()
	if len(profile) != 0 {
		var err error
		conf, err = config.Load(profile)
		if err != nil {
			fatalf("%v", err)
		}
	}
	if len(script) != 0 {
		conf.Script = script
	}
	conf.Verbose = conf.Verbose || verbose
	conf.Stats = conf.Stats || len(stats) != 0

	setup, err := conf.Setup()
	if err != nil {
		fatalf("%v", err)
	}

	m, err := esil.NewMachine(setup)
	if err != nil {
		fatalf("%v", err)
	}
	defer m.Close()
	m.SetOffset(offset)

	switch {
	case len(expr) != 0:
		err = evaluate(m, expr)
	case len(listing) != 0:
		err = run(m, conf, listing)
	default:
		err = interact(m, os.Stdin)
	}

	if len(stats) != 0 {
		if serr := writeStats(m, stats); serr != nil {
			log.Errorf("%v: %v", stats, serr)
		}
	}

	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// evaluate runs one string and dumps what it left behind.
func evaluate(m *esil.Machine, text string) (err error) {
	err = m.Parse(text)
	if derr := m.DumpStack(); derr != nil {
		return derr
	}
	m.Stack.Reset()
	return
}

// interact evaluates one string per input line, reporting errors
// without stopping.
func interact(m *esil.Machine, in io.Reader) (err error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		if perr := evaluate(m, text); perr != nil {
			fmt.Fprintf(os.Stderr, "%v\n", perr)
		}
	}
	return scanner.Err()
}

// run executes a listing until it halts or falls off the end.
func run(m *esil.Machine, conf *config.Config, path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	emu := emulator.NewEmulator(m)
	emu.Verbose = m.Verbose
	emu.PC = conf.PC

	emu.Listing, err = emulator.ParseListing(inf, m.Ops())
	if err != nil {
		return
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	log.Infof("%d instructions, trap %v code 0x%x", emu.Steps, m.Trap, m.TrapCode)
	return m.DumpStack()
}

func writeStats(m *esil.Machine, path string) (err error) {
	data, err := m.Stats.Encode()
	if err != nil {
		return
	}
	if m.Verbose {
		for kind, target := range m.Stats.Accesses() {
			log.Debugf("%v %v", kind, target)
		}
	}
	return os.WriteFile(path, data, 0644)
}
