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

	"github.com/spf13/cobra"

	"github.com/ls-2018/xenstore"
)

func newReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <path>",
		Short: "Read the value stored at path",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), globalFlags.Timeout)
			defer cancel()

			v, err := xenstore.WithXS(c, func(h xenstore.Handle) (string, error) {
				return xenstore.Read(ctx, h, args[0])
			})
			exitOnError(err)
			fmt.Println(v)
		},
	}
}
