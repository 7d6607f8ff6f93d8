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
	"strings"

	"github.com/spf13/cobra"

	"github.com/ls-2018/xenstore"
)

// newTxnCommand runs a scripted sequence of path=value writes inside a
// single transaction, retrying the whole batch on a server-reported
// conflict, demonstrating with_xst end to end.
func newTxnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "txn <path=value>...",
		Short: "Write one or more path=value pairs atomically",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), globalFlags.Timeout)
			defer cancel()

			writes := make(map[string]string, len(args))
			for _, a := range args {
				path, value, ok := strings.Cut(a, "=")
				if !ok {
					exitOnError(fmt.Errorf("malformed argument %q, want path=value", a))
				}
				writes[path] = value
			}

			_, err := xenstore.WithXST(ctx, c, func(h xenstore.Handle) (struct{}, error) {
				for path, value := range writes {
					if err := xenstore.Write(ctx, h, path, value); err != nil {
						return struct{}{}, err
					}
				}
				return struct{}{}, nil
			})
			exitOnError(err)
			fmt.Printf("committed %d write(s)\n", len(writes))
		},
	}
}
