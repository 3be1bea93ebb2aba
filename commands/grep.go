package commands

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"github.com/josephlewis42/gogosh/core"
	"github.com/pkg/errors"
)

// Grep implements the POSIX grep command, it returns true if any line was
// selected.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/
func Grep(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "grep [-iv] PATTERN [FILE]...",
		Short: "Search files for text matching a pattern.",
	}

	invert := cmd.Flags().Bool('v', "Select lines not matching any of the specified patterns.")
	ignoreCase := cmd.Flags().Bool('i', "Perform pattern matching in searches without regard to case.")
	showLineNumbers := cmd.Flags().Bool('n', "Show line numbers.")

	var color ColorPrinter
	color.Init(cmd.Flags(), p)

	return cmd.Run(p, args, func() (core.Value, error) {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			return core.Null, errors.New("missing argument PATTERN")
		}

		pattern := args[0]
		if *ignoreCase {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return core.Null, err
		}

		files := args[1:]
		showFileName := len(files) > 1
		selected := false
		err = eachFileOrStdin(p, files, func(name string, fd io.Reader) error {
			w := p.Stdout()

			scanner := bufio.NewScanner(fd)
			scanner.Buffer(make([]byte, 64*1024), maxLineLength)
			lineNo := 1
			for scanner.Scan() {
				line := scanner.Text()
				lineMatches := regex.MatchString(line)

				if lineMatches != *invert {
					selected = true
					if showFileName {
						fmt.Fprint(w, color.Sprint(ColorBoldBlue, name), ":")
					}

					if *showLineNumbers {
						fmt.Fprintf(w, "%d:", lineNo)
					}

					if lineMatches {
						line = regex.ReplaceAllStringFunc(line, func(match string) string {
							return color.Sprint(ColorBoldRed, match)
						})
					}
					fmt.Fprintln(w, line)
				}
				lineNo++
			}

			return ignoreClosed(scanner.Err())
		})
		return core.Bool(selected), err
	})
}

func init() {
	addBuiltin("grep", "Search files or stdin for lines matching a pattern.", Grep)
}
