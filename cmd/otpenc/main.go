// Command otpenc fabricates lab inputs: it one-time-pad encrypts a
// plaintext file with a key of the same length and writes the hex
// ciphertext. Run it several times with the same key to produce a
// many-time-pad exercise.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jmallek/depad/pkg/hexstr"
	"github.com/jmallek/depad/pkg/otp"
)

func main() {
	inPath := flag.String("in", "data/plaintext.txt", "plaintext file")
	outPath := flag.String("out", "data/ciphertext.txt", "hex ciphertext output file")
	quiet := flag.Bool("q", false, "suppress the byte table")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: otpenc [flags] \"key sentence\"")
		fmt.Fprintln(os.Stderr, "The key must be the same length as the plaintext.")
		os.Exit(1)
	}
	key := []byte(flag.Arg(0))

	data, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading plaintext: %v\n", err)
		os.Exit(1)
	}
	plaintext := []byte(strings.TrimSpace(string(data)))

	ciphertext, err := otp.Encrypt(plaintext, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hexOut := hexstr.Encode(ciphertext)
	if !*quiet {
		fmt.Printf("Plaintext:  %q (%d bytes)\n", plaintext, len(plaintext))
		fmt.Printf("Key:        %q\n", key)
		fmt.Println("\nCiphertext bytes:")
		printByteTable(ciphertext)
	}
	fmt.Printf("\nCiphertext (hex): %s\n", hexOut)

	if err := os.WriteFile(*outPath, []byte(hexOut+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ciphertext: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Hex output written to %s\n", *outPath)
}

func printByteTable(data []byte) {
	fmt.Printf("%-10s %-10s %s\n", "Character", "Decimal", "Hex")
	fmt.Println(strings.Repeat("-", 30))
	for _, b := range data {
		c := "."
		if b >= 32 && b <= 126 {
			c = string(rune(b))
		}
		fmt.Printf("%-10s %-10d 0x%02X\n", c, b, b)
	}
}
