package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	var (
		encodeType  = flag.String("encode", "", "Encode a value of this type ("+strings.Join(types, ", ")+")")
		value       = flag.String("value", "", "Value to encode (bytes as hex, doubles may be bits:0x...)")
		decodeType  = flag.String("decode", "", "Decode hex input as this type ("+strings.Join(types, ", ")+", any)")
		hexInput    = flag.String("hex", "", "Hex-encoded CBOR input (reads stdin when empty)")
		diag        = flag.Bool("diag", false, "Print diagnostic notation for hex input")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var err error
	switch {
	case *encodeType != "":
		err = runEncode(os.Stdout, *encodeType, *value)
	case *decodeType != "":
		err = runDecode(os.Stdout, *decodeType, *hexInput)
	case *diag:
		err = runDecode(os.Stdout, "any", *hexInput)
	default:
		fmt.Fprintln(os.Stderr, "Usage: cbor -encode <type> -value <value>")
		fmt.Fprintln(os.Stderr, "       cbor -decode <type> [-hex <hex>]")
		fmt.Fprintln(os.Stderr, "       cbor -diag [-hex <hex>]")
		fmt.Fprintln(os.Stderr, "       cbor -i  (interactive mode)")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runEncode(w io.Writer, typ, value string) error {
	data, err := encodeValue(typ, value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", typ, err)
	}
	_, err = io.WriteString(w, describe(data))
	return err
}

func runDecode(w io.Writer, typ, hexInput string) error {
	raw := []byte(hexInput)
	if hexInput == "" {
		var err error
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}
	data, err := decodeHexInput(raw)
	if err != nil {
		return err
	}

	result, err := decodeValue(typ, data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", typ, err)
	}
	_, err = fmt.Fprintln(w, result)
	return err
}
