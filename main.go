package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xyproto/env/v2"
	"golang.org/x/term"
)

// A whole-program compiler from the datalogger source language to the
// DLCOS stack-VM binary image. The front end (lexing, indentation,
// grammar) is a separate tool; this program consumes its serialized
// parse tree and produces the image described in the VM's image format.

const versionString = "dlcc 1.0.0"

// VerboseMode enables detailed compilation info on stderr
var VerboseMode bool

func verbosef(format string, args ...any) {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func main() {
	var inputFlag = flag.String("i", "", "input parse-tree file (required)")
	var outputFlag = flag.String("o", "", "output file, - for stdout (required unless -d)")
	var asmFlag = flag.Bool("s", false, "emit assembly text instead of the binary image")
	var dumpFlag = flag.Bool("d", false, "dump assembly text to stdout")
	var builtinsFlag = flag.String("b", env.Str("DLCC_BUILTINS"), "builtin declarations tree file")
	var stackFlag = flag.Int("stack", env.Int("DLCC_STACK_SIZE", defaultStackSize), "stack region size in bytes")
	var portFlag = flag.String("p", env.Str("DLCC_PORT"), "serial port to upload the image to")
	var baudFlag = flag.Int("baud", env.Int("DLCC_BAUD", defaultBaudRate), "serial upload baud rate")
	var versionFlag = flag.Bool("V", false, "print version information and exit")
	var verboseFlag = flag.Bool("v", false, "verbose mode (show detailed compilation info)")
	flag.Parse()

	if *versionFlag {
		fmt.Println(versionString)
		os.Exit(0)
	}
	VerboseMode = *verboseFlag

	if *inputFlag == "" || (*outputFlag == "" && !*dumpFlag) {
		log.Fatalf("input and output should be submitted")
	}

	data, err := os.ReadFile(*inputFlag)
	if err != nil {
		log.Fatalf("reading %s: %v", *inputFlag, err)
	}
	tree, err := loadTree(data)
	if err != nil {
		exitFrontend(err)
	}
	root, err := bindProgram(tree)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	verbosef("bound %d top-level statements", len(root.Stmts))

	builtins := map[string]*FunctionSignature{}
	if *builtinsFlag != "" {
		declData, err := os.ReadFile(*builtinsFlag)
		if err != nil {
			log.Fatalf("reading %s: %v", *builtinsFlag, err)
		}
		declTree, err := loadTree(declData)
		if err != nil {
			exitFrontend(err)
		}
		builtins, err = loadBuiltins(declTree)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		verbosef("loaded %d builtins", len(builtins))
	}

	asmText, image, err := Compile(root, builtins, *stackFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	verbosef("image is %d bytes, stack %d bytes", len(image), *stackFlag)

	switch {
	case *dumpFlag:
		fmt.Print(asmText)
	case *asmFlag:
		if err := os.WriteFile(*outputFlag, []byte(asmText), 0644); err != nil {
			log.Fatalf("writing %s: %v", *outputFlag, err)
		}
	case *outputFlag == "-":
		// refuse to splat raw image bytes onto an interactive terminal
		if term.IsTerminal(int(os.Stdout.Fd())) {
			log.Fatalf("refusing to write the binary image to a terminal; redirect stdout or use -o FILE")
		}
		if _, err := os.Stdout.Write(image); err != nil {
			log.Fatalf("writing image to stdout: %v", err)
		}
	default:
		if err := os.WriteFile(*outputFlag, image, 0644); err != nil {
			log.Fatalf("writing %s: %v", *outputFlag, err)
		}
	}

	if *portFlag != "" {
		if err := uploadImage(image, *portFlag, *baudFlag); err != nil {
			log.Fatalf("upload failed: %v", err)
		}
	}
}

// exitFrontend prints the front end's single-line diagnostic and exits.
func exitFrontend(err error) {
	var te *TreeError
	if errors.As(err, &te) {
		fmt.Println(te.Error())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
