package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docwire/bson"
	"github.com/docwire/bson/wire"
	"github.com/docwire/bson/yamlval"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "fmt":
		fmtCmd(os.Args[2:])
	case "encode":
		encodeCmd(os.Args[2:])
	case "decode":
		decodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `bsondoc CLI

Usage:
  bsondoc fmt    [-yaml] [file]   parse a document and print its canonical text form
  bsondoc encode [-yaml] [file]   parse a document and print its wire form as hex
  bsondoc decode [file]           decode a hex wire form and print its canonical text form

Reads stdin when no file is given.`)
}

func fmtCmd(args []string) {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	fromYAML := fs.Bool("yaml", false, "treat input as YAML instead of text form")
	_ = fs.Parse(args)
	d := readDocument(fs.Arg(0), *fromYAML)
	fmt.Println(d.ToText())
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	fromYAML := fs.Bool("yaml", false, "treat input as YAML instead of text form")
	_ = fs.Parse(args)
	d := readDocument(fs.Arg(0), *fromYAML)
	raw, err := wire.Marshal(d)
	if err != nil {
		fatalf("encode: %v", err)
	}
	fmt.Println(hex.EncodeToString(raw))
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	_ = fs.Parse(args)
	data := readInput(fs.Arg(0))
	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		fatalf("decode: input is not hex: %v", err)
	}
	d, err := wire.Unmarshal(raw)
	if err != nil {
		fatalf("decode: %v", err)
	}
	fmt.Println(d.ToText())
}

func readDocument(path string, fromYAML bool) *bson.Document {
	data := readInput(path)
	if fromYAML {
		d, err := yamlval.Decode(data)
		if err != nil {
			fatalf("parse: %v", err)
		}
		return d
	}
	d, err := bson.Parse(data)
	if err != nil {
		fatalf("parse: %v", err)
	}
	return d
}

func readInput(path string) []byte {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("reading stdin: %v", err)
		}
		return data
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading %s: %v", path, err)
	}
	return data
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
