package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cricklet/duckchess/internal/duckgo"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
	"github.com/cricklet/duckchess/internal/uci"
	"github.com/pkg/profile"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "recover()", r)
		}
	}()

	args := os.Args[1:]

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath(RootDir() + "/data/CmdUciMain"))
		defer p.Stop()
	}
	args = FilterSlice(args, func(arg string) bool {
		return arg != "profile"
	})

	if len(args) > 0 && args[0] == "options" {
		for _, option := range search.AllSearchOptions {
			fmt.Println(option)
		}
		return
	}

	searchOptions, err := search.SearcherOptionsFromArgs(args...)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	// engine logs go to stderr so stdout stays protocol only
	logger := FuncLogger(func(s string) {
		fmt.Fprint(os.Stderr, s)
	})
	r := uci.NewUciRunner(duckgo.NewDuckGoRunner(logger, searchOptions))

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := scanner.Text()
		if input == "quit" {
			break
		}
		result, err := r.HandleInput(input)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		for _, v := range result {
			fmt.Println(v)
		}
	}
}
