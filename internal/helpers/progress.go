package helpers

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

type ProgressBar struct {
	Set   func(int)
	Add   func(int)
	Close func()
}

func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CreateProgressBar draws to stdout when it is a terminal and stays silent otherwise,
// so harness output piped to a file isn't littered with carriage returns.
func CreateProgressBar(total int, label string) ProgressBar {
	var writer io.Writer = io.Discard
	if IsTerminal() {
		writer = os.Stdout
	}

	p := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("games"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)

	return ProgressBar{
		func(i int) {
			_ = p.Set(i)
		},
		func(i int) {
			_ = p.Add(i)
		},
		func() {
			_ = p.Finish()
		},
	}
}

func CountString(n int) string {
	return humanize.Comma(int64(n))
}
