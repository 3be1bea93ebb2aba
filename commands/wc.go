package commands

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/josephlewis42/gogosh/core"
)

type wcCounts struct {
	lines, words, bytes, chars int
}

func (c *wcCounts) add(other wcCounts) {
	c.lines += other.lines
	c.words += other.words
	c.bytes += other.bytes
	c.chars += other.chars
}

func (c wcCounts) toMap() core.Value {
	return core.Map(map[string]core.Value{
		"lines": core.Text(strconv.Itoa(c.lines)),
		"words": core.Text(strconv.Itoa(c.words)),
		"bytes": core.Text(strconv.Itoa(c.bytes)),
		"chars": core.Text(strconv.Itoa(c.chars)),
	})
}

// countText counts UTF-8 input, invalid bytes count as one character each.
func countText(r io.Reader) (wcCounts, error) {
	var c wcCounts
	br := bufio.NewReader(r)
	inWord := false
	for {
		ch, size, err := br.ReadRune()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, ignoreClosed(err)
		}

		c.bytes += size
		c.chars++
		if ch == '\n' {
			c.lines++
		}
		switch {
		case unicode.IsSpace(ch):
			inWord = false
		case !inWord:
			inWord = true
			c.words++
		}
	}
}

// Wc prints newline, word and byte counts for each file and returns the
// totals as a map.
//
// https://pubs.opengroup.org/onlinepubs/009695399/utilities/wc.html
func Wc(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "wc [-c|-m] [-lw] [FILE...]",
		Short: "Count the newlines, words and bytes in each FILE, or stdin.",
	}

	opts := cmd.Flags()
	lines := opts.Bool('l', "count newlines")
	words := opts.Bool('w', "count words")
	bytes := opts.Bool('c', "count bytes")
	chars := opts.Bool('m', "count characters")

	return cmd.Run(p, args, func() (core.Value, error) {
		files := opts.Args()
		defaults := !(*lines || *words || *bytes || *chars)

		show := func(c wcCounts, name string) {
			var cols []string
			for _, col := range []struct {
				on bool
				n  int
			}{
				{*lines || defaults, c.lines},
				{*words || defaults, c.words},
				{*bytes || defaults, c.bytes},
				{*chars, c.chars},
			} {
				if col.on {
					cols = append(cols, strconv.Itoa(col.n))
				}
			}
			if len(files) > 0 {
				cols = append(cols, name)
			}
			io.WriteString(p.Stdout(), strings.Join(cols, " ")+"\n")
		}

		var total wcCounts
		seen := 0
		err := eachFileOrStdin(p, files, func(name string, r io.Reader) error {
			c, err := countText(r)
			if err != nil {
				return err
			}
			show(c, name)
			total.add(c)
			seen++
			return nil
		})
		if seen > 1 {
			show(total, "total")
		}
		if err != nil {
			return core.Null, err
		}
		return total.toMap(), nil
	})
}

func init() {
	addBuiltin("wc", "Count lines, words and bytes.", Wc)
}
