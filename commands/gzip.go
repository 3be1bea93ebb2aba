package commands

import (
	"io"
	"strings"

	"github.com/josephlewis42/gogosh/core"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const gzipSuffix = ".gz"

// Gzip compresses files on the session filesystem, or stdin to stdout.
func Gzip(p *core.Process, args []core.Value) (core.Value, error) {
	return runGzip(p, args, false)
}

// Gunzip decompresses files on the session filesystem, or stdin to stdout.
func Gunzip(p *core.Process, args []core.Value) (core.Value, error) {
	return runGzip(p, args, true)
}

func runGzip(p *core.Process, args []core.Value, decompress bool) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "gzip [-dkc] [-l LEVEL] [FILE]...",
		Short: "Compress or expand files, FILE is replaced by FILE.gz unless -k is given.",
	}

	opts := cmd.Flags()
	decompressFlag := opts.BoolLong("decompress", 'd', "decompress")
	keep := opts.BoolLong("keep", 'k', "keep input files")
	toStdout := opts.BoolLong("stdout", 'c', "write to stdout, keep input files")
	level := opts.IntLong("level", 'l', gzip.DefaultCompression, "compression level 1 (fastest) to 9 (best)")

	return cmd.Run(p, args, func() (core.Value, error) {
		decompress = decompress || *decompressFlag

		transform := func(w io.Writer, r io.Reader) error {
			if decompress {
				return gunzipStream(w, r)
			}
			return gzipStream(w, r, *level)
		}

		files := opts.Args()
		if len(files) == 0 {
			return core.Null, transform(p.Stdout(), p.Stdin())
		}

		for _, name := range files {
			if *toStdout {
				if err := eachFile(p, name, func(_ string, r io.Reader) error {
					return transform(p.Stdout(), r)
				}); err != nil {
					return core.Null, err
				}
				continue
			}

			outName := name + gzipSuffix
			if decompress {
				if !strings.HasSuffix(name, gzipSuffix) {
					return core.Null, errors.Errorf("%s: unknown suffix", name)
				}
				outName = strings.TrimSuffix(name, gzipSuffix)
			}

			if err := transformFile(p.Fs(), name, outName, transform); err != nil {
				return core.Null, err
			}
			if !*keep {
				if err := p.Fs().Remove(name); err != nil {
					return core.Null, err
				}
			}
		}
		return core.Null, nil
	})
}

func transformFile(fs afero.Fs, inName, outName string, transform func(io.Writer, io.Reader) error) error {
	in, err := fs.Open(inName)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.Create(outName)
	if err != nil {
		return err
	}
	if err := transform(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, inName)
	}
	return out.Close()
}

func gzipStream(w io.Writer, r io.Reader, level int) error {
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return err
	}
	if _, err := io.Copy(zw, r); ignoreClosed(err) != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func gunzipStream(w io.Writer, r io.Reader) error {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()

	_, err = io.Copy(w, zr)
	return err
}

func init() {
	addBuiltin("gzip", "Compress files or stdin.", Gzip)
	addBuiltin("gunzip", "Decompress files or stdin.", Gunzip)
}
