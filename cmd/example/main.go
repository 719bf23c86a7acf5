// Command example is a runnable end-to-end walkthrough: fabricate a
// small many-time-pad exercise, drag a crib, confirm the hit and watch
// the key span decode every other message.
package main

import (
	"fmt"
	"log"

	"github.com/jmallek/depad"
	"github.com/jmallek/depad/pkg/analysis"
	"github.com/jmallek/depad/pkg/hexstr"
	"github.com/jmallek/depad/pkg/otp"
)

func main() {
	fmt.Println("Starting depad example")

	// One 31-byte key, reused across three messages: the many-time-pad
	// mistake this toolkit exists to exploit.
	key := []byte("this key must never be reused!!")
	plaintexts := [][]byte{
		[]byte("the quick brown fox jumps high."),
		[]byte("pack my box with five dozen jug"),
		[]byte("meet me at the harbor at nine! "),
	}

	ciphertexts := make([][]byte, len(plaintexts))
	for i, p := range plaintexts {
		ct, err := otp.Encrypt(p, key)
		if err != nil {
			log.Fatalf("encrypting message %d: %v", i, err)
		}
		ciphertexts[i] = ct
		fmt.Printf("C%d: %s\n", i, hexstr.Encode(ct))
	}

	set, err := analysis.NewSet(ciphertexts)
	if err != nil {
		log.Fatalf("building set: %v", err)
	}
	an, err := depad.New(set, depad.Config{})
	if err != nil {
		log.Fatalf("building analyzer: %v", err)
	}
	defer an.Close()

	// The analyst guesses that one message mentions "the harbor".
	crib := []byte("the harbor")
	sweeps, err := an.Sweep(crib)
	if err != nil {
		log.Fatalf("sweeping: %v", err)
	}
	fmt.Printf("\nDragging %q across all %d pairs:\n", crib, len(sweeps))
	for _, sweep := range sweeps {
		for _, r := range sweep.Results {
			if r.Verdict.Plausible {
				fmt.Printf("  pair (%d,%d) offset %2d ratio %.2f -> %q\n",
					r.PairI, r.PairJ, r.Offset, r.Verdict.PrintableRatio, r.Fragment)
			}
		}
	}

	// The hit at offset 11 against ciphertext 2 is accepted; turn it
	// into key material and decode the same span everywhere.
	span, err := an.ConfirmKey(2, crib, 11)
	if err != nil {
		log.Fatalf("confirming key: %v", err)
	}
	fmt.Printf("\nRecovered key bytes [%d,%d): %s\n", span.Offset, span.End(), hexstr.Encode(span.Key))

	decodes, err := an.DecodeAll(span)
	if err != nil {
		log.Fatalf("decoding: %v", err)
	}
	for _, d := range decodes {
		fmt.Printf("  message %d, bytes [%d,%d): %q\n", d.Index, d.Offset, span.End(), d.Plaintext)
	}
}
