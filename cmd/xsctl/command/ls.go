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
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ls-2018/xenstore"
	"github.com/ls-2018/xenstore/directory"
)

func newLsCommand() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls <path>",
		Short: "List the children of path",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), globalFlags.Timeout)
			defer cancel()

			rows, err := xenstore.WithXS(c, func(h xenstore.Handle) ([]string, error) {
				if recursive {
					return directory.Walk(ctx, h, args[0])
				}
				return xenstore.Directory(ctx, h, args[0])
			})
			exitOnError(err)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"path"})
			for _, r := range rows {
				table.Append([]string{r})
			}
			table.Render()
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recursively list the entire subtree")
	return cmd
}
