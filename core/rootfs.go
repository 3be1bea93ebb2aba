package core

import (
	"archive/tar"
	"bufio"
	"io"
	"os"

	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/afero/tarfs"
)

// NewRootFs reads a tar archive, gzipped or not, into a filesystem. The
// archive is read-only, writes land in an in-memory layer on top of it.
func NewRootFs(r io.Reader) (afero.Fs, error) {
	br := bufio.NewReader(r)

	var archive io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't open gzip stream")
		}
		defer gz.Close()
		archive = gz
	}

	base := afero.NewReadOnlyFs(tarfs.New(tar.NewReader(archive)))
	return afero.NewCopyOnWriteFs(base, afero.NewMemMapFs()), nil
}

// LoadImage reads an image from a `docker save` tarball. If tag is empty
// the tarball must hold exactly one tagged image.
func LoadImage(path, tag string) (v1.Image, error) {
	if tag == "" {
		manifest, err := tarball.LoadManifest(func() (io.ReadCloser, error) {
			return os.Open(path)
		})
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read manifest")
		}

		var tags []string
		for _, m := range manifest {
			tags = append(tags, m.RepoTags...)
		}
		if len(tags) != 1 {
			return nil, errors.Errorf("expected one tag in %s, specify one of: %q", path, tags)
		}
		tag = tags[0]
	}

	parsed, err := name.NewTag(tag)
	if err != nil {
		return nil, err
	}
	return tarball.ImageFromPath(path, &parsed)
}

// FlattenImage writes the merged filesystem of every layer of img to w as a
// single tar, files deleted by upper layers are left out.
func FlattenImage(img v1.Image, w io.Writer) error {
	rc := mutate.Extract(img)
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return errors.Wrap(err, "couldn't flatten image")
	}
	return nil
}
