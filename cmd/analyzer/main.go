// Command analyzer is the interactive front end of the engine: load a
// ciphertext file, inspect pair XORs, drag cribs, confirm key spans
// and decode with everything confirmed so far.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jmallek/depad"
	"github.com/jmallek/depad/internal/config"
	"github.com/jmallek/depad/internal/loader"
	"github.com/jmallek/depad/internal/sessionstore"
	"github.com/jmallek/depad/pkg/analysis"
	"github.com/jmallek/depad/pkg/hexstr"
)

func main() {
	configPath := flag.String("config", "config.yaml", "yaml config file")
	filePath := flag.String("file", "", "ciphertext file, one hex message per line (overrides config)")
	sessionDir := flag.String("session", "", "session directory (overrides config)")
	threshold := flag.Float64("threshold", 0, "printable-ratio cutoff (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("loading config")
	}
	if *filePath != "" {
		conf.CiphertextFile = *filePath
	}
	if *sessionDir != "" {
		conf.SessionDir = *sessionDir
	}
	if *threshold != 0 {
		conf.Threshold = *threshold
	}

	set, err := loader.ReadSetFile(conf.CiphertextFile, loader.Options{
		SkipInvalid: true,
		Logger:      logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("loading ciphertexts")
	}

	an, err := depad.New(set, depad.Config{
		Threshold: conf.Threshold,
		Workers:   conf.Workers,
		Logger:    logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("building analyzer")
	}
	defer an.Close()

	store, err := sessionstore.New(sessionstore.StoreConfig{
		Path:          conf.SessionDir,
		MinimumFreeMB: conf.MinimumFreeMB,
		Logger:        logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("opening session store")
	}
	defer store.Close()

	menu := &menu{
		an:    an,
		store: store,
		in:    bufio.NewScanner(os.Stdin),
		log:   logger,
	}
	menu.run()
}

type menu struct {
	an    *depad.Analyzer
	store *sessionstore.Store
	in    *bufio.Scanner
	log   *logrus.Logger
}

func (m *menu) run() {
	for {
		fmt.Println("\nCiphertext Analysis Menu")
		fmt.Println("========================")
		fmt.Println("1. View loaded ciphertexts")
		fmt.Println("2. View a pair XOR")
		fmt.Println("3. Drag a crib across all pairs")
		fmt.Println("4. Confirm a crib as key material")
		fmt.Println("5. Decode with the session key")
		fmt.Println("6. Export session")
		fmt.Println("7. Import session")
		fmt.Println("8. Exit")

		choice, ok := m.promptInt("\nEnter your choice (1-8): ")
		if !ok {
			return
		}
		switch choice {
		case 1:
			m.viewCiphertexts()
		case 2:
			m.viewPair()
		case 3:
			m.dragCrib()
		case 4:
			m.confirmCrib()
		case 5:
			m.decodeSession()
		case 6:
			m.exportSession()
		case 7:
			m.importSession()
		case 8:
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func (m *menu) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) promptInt(label string) (int, bool) {
	text, ok := m.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		fmt.Println("Please enter a number.")
		return m.promptInt(label)
	}
	return n, true
}

func (m *menu) viewCiphertexts() {
	set := m.an.Set()
	fmt.Println("\nLoaded ciphertexts:")
	for i := 0; i < set.Len(); i++ {
		fmt.Printf("%3d: %s\n", i, hexstr.Encode(set.Message(i)))
	}
}

func (m *menu) viewPair() {
	pairs := m.an.Pairs()
	fmt.Printf("\n%d pairs available (0-%d)\n", len(pairs), len(pairs)-1)
	idx, ok := m.promptInt("Pair index: ")
	if !ok || idx < 0 || idx >= len(pairs) {
		fmt.Println("Invalid pair index.")
		return
	}
	pair := pairs[idx]
	fmt.Printf("\nXOR of ciphertexts %d and %d (key cancelled):\n", pair.I, pair.J)
	fmt.Printf("Hex: %s\n\n", hexstr.Encode(pair.KeyFree))
	printByteTable(pair.KeyFree)
}

// printByteTable shows each byte of a key-free sequence with its binary
// pattern. A leading 01 means one side is likely a space and the other
// a letter; 00 means both sides are the same character class.
func printByteTable(seq []byte) {
	fmt.Printf("%-8s | %-4s | %-8s | %s\n", "Position", "Hex", "Binary", "Notes")
	fmt.Println(strings.Repeat("-", 52))
	for i, b := range seq {
		note := ""
		switch {
		case b>>6 == 0b01:
			note = "possible space/letter pair"
		case b>>6 == 0b00:
			note = "same character class"
		}
		fmt.Printf("%-8d | %02X   | %08b | %s\n", i, b, b, note)
	}
}

func (m *menu) dragCrib() {
	text, ok := m.prompt("\nEnter your plaintext guess: ")
	if !ok || text == "" {
		fmt.Println("Guess cannot be empty.")
		return
	}
	sweeps, err := m.an.Sweep([]byte(text))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	hits := 0
	for _, sweep := range sweeps {
		for _, r := range sweep.Results {
			if !r.Verdict.Plausible {
				continue
			}
			hits++
			fmt.Printf("Pair (%d,%d) offset %2d  ratio %.2f  -> %q\n",
				r.PairI, r.PairJ, r.Offset, r.Verdict.PrintableRatio, renderFragment(r.Fragment))
		}
	}
	if hits == 0 {
		fmt.Println("No plausible alignment found for this crib.")
	} else {
		fmt.Printf("%d plausible alignment(s).\n", hits)
	}
}

func (m *menu) confirmCrib() {
	idx, ok := m.promptInt("\nCiphertext index the crib belongs to: ")
	if !ok {
		return
	}
	text, ok := m.prompt("Confirmed plaintext fragment: ")
	if !ok || text == "" {
		fmt.Println("Fragment cannot be empty.")
		return
	}
	offset, ok := m.promptInt("Offset of the fragment: ")
	if !ok {
		return
	}
	span, err := m.an.ConfirmKey(idx, []byte(text), offset)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	err = m.store.SaveSpan(sessionstore.SpanRecord{
		Offset:     span.Offset,
		Key:        span.Key,
		Ciphertext: idx,
		Crib:       []byte(text),
	})
	if err != nil {
		fmt.Printf("Error saving span: %v\n", err)
		return
	}
	fmt.Printf("Recovered key bytes [%d,%d): %s\n", span.Offset, span.End(), hexstr.Encode(span.Key))
	m.printSpanDecodes(span)
}

func (m *menu) printSpanDecodes(span analysis.KeySpan) {
	decodes, err := m.an.DecodeAll(span)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Span applied to every ciphertext:")
	for _, d := range decodes {
		fmt.Printf("%3d: %q\n", d.Index, renderFragment(d.Plaintext))
	}
}

func (m *menu) decodeSession() {
	set := m.an.Set()
	key, known, err := m.store.KeyMask(set.MessageLen())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	covered := 0
	for _, k := range known {
		if k {
			covered++
		}
	}
	if covered == 0 {
		fmt.Println("No key material confirmed yet.")
		return
	}
	fmt.Printf("\nKey coverage: %d of %d bytes\n", covered, len(known))
	for i := 0; i < set.Len(); i++ {
		ct := set.Message(i)
		line := make([]byte, len(ct))
		for p := range ct {
			if known[p] {
				line[p] = ct[p] ^ key[p]
			} else {
				line[p] = '_'
			}
		}
		fmt.Printf("%3d: %s\n", i, renderFragment(line))
	}
}

func (m *menu) exportSession() {
	path, ok := m.prompt("\nExport file path: ")
	if !ok || path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer f.Close()
	if err := m.store.Export(f); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Session exported to %s\n", path)
}

func (m *menu) importSession() {
	path, ok := m.prompt("\nImport file path: ")
	if !ok || path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer f.Close()
	if err := m.store.Import(f); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Session imported.")
}

// renderFragment shows printable bytes as-is and everything else as a
// dot, the usual hexdump convention.
func renderFragment(fragment []byte) string {
	out := make([]byte, len(fragment))
	for i, b := range fragment {
		if b >= 32 && b <= 126 {
			out[i] = b
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
