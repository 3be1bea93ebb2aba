package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/gogosh/core"
	"github.com/spf13/afero"
)

// Ls lists directories of the session filesystem and returns the names of
// the entries it listed.
func Ls(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "ls [-alH] [DIR]...",
		Short: "List information about the DIRs (/ by default).",
	}

	opts := cmd.Flags()
	listAll := opts.Bool('a', "don't ignore entries starting with .")
	longListing := opts.Bool('l', "use a long listing format")
	humanSize := opts.Bool('H', "print human readable sizes")

	var color ColorPrinter
	color.Init(opts, p)

	return cmd.Run(p, args, func() (core.Value, error) {
		directoriesToList := opts.Args()
		if len(directoriesToList) == 0 {
			directoriesToList = append(directoriesToList, "/")
		}
		sort.Strings(directoriesToList)

		showDirectoryNames := len(directoriesToList) > 1

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		var listed []core.Value
		var firstErr error
		for _, directory := range directoriesToList {
			allPaths, err := afero.ReadDir(p.Fs(), directory)
			if err != nil {
				fmt.Fprintf(p.Stderr(), "%s: %v\n", directory, err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}

			var paths []os.FileInfo
			for _, path := range allPaths {
				if !*listAll && strings.HasPrefix(path.Name(), ".") {
					continue
				}
				paths = append(paths, path)
				listed = append(listed, core.Text(path.Name()))
			}

			if showDirectoryNames {
				fmt.Fprintf(p.Stdout(), "%s:\n", directory)
			}

			if !*longListing {
				for _, f := range paths {
					fmt.Fprintln(p.Stdout(), displayName(&color, f))
				}
				continue
			}

			tw := tabwriter.NewWriter(p.Stdout(), 0, 0, 1, ' ', 0)
			for _, f := range paths {
				fmt.Fprintf(tw, "%s\t%s\t%s\n",
					f.Mode().String(),
					sizeFmt(f.Size()),
					displayName(&color, f))
			}
			tw.Flush()
		}

		return core.List(listed...), firstErr
	})
}

func displayName(color *ColorPrinter, f os.FileInfo) string {
	if f.IsDir() {
		return color.Sprint(ColorBoldBlue, f.Name())
	}
	return f.Name()
}

func init() {
	addBuiltin("ls", "List directory contents of the session filesystem.", Ls)
}
