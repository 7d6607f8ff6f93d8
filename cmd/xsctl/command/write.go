// Copyright 2016 The etcd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ls-2018/xenstore"
)

func newWriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write <path> <value>",
		Short: "Store value at path",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), globalFlags.Timeout)
			defer cancel()

			path, value := args[0], args[1]
			_, err := xenstore.WithXS(c, func(h xenstore.Handle) (struct{}, error) {
				return struct{}{}, xenstore.Write(ctx, h, path, value)
			})
			exitOnError(err)
			fmt.Printf("wrote %s to %s\n", humanize.Bytes(uint64(len(value))), path)
		},
	}
}
