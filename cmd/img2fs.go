/*
Copyright © 2021 Joseph Lewis <joseph@josephlewis.net>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/josephlewis42/gogosh/core"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
)

var img2fsGzip bool

var img2fsCmd = &cobra.Command{
	Use:   "img2fs IMAGE_TAR OUTPUT [TAG]",
	Short: "Flatten a saved docker image into a root_fs archive.",
	Long: `Flatten a saved docker image into a tar usable as a session root_fs.

	docker pull alpine:latest
	docker save alpine:latest > alpine.tar
	gogosh img2fs alpine.tar rootfs.tar.gz

TAG is required when the saved image holds more than one tag. Output names
ending in .gz are compressed, as is any output with --gzip.
`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var tag string
		if len(args) == 3 {
			tag = args[2]
		}
		image, err := core.LoadImage(args[0], tag)
		if err != nil {
			return err
		}

		fd, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer fd.Close()

		var out io.WriteCloser = fd
		if img2fsGzip || strings.HasSuffix(args[1], ".gz") {
			out = gzip.NewWriter(fd)
		}
		if err := core.FlattenImage(image, out); err != nil {
			return err
		}
		if out != fd {
			if err := out.Close(); err != nil {
				return err
			}
		}
		return fd.Close()
	},
}

func init() {
	rootCmd.AddCommand(img2fsCmd)
	img2fsCmd.Flags().BoolVarP(&img2fsGzip, "gzip", "z", false, "gzip the output")
}
