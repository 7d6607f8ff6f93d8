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
	"os/signal"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/ls-2018/xenstore"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Tail changes to path until interrupted",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			defer c.Close()

			out := colorable.NewColorableStdout()
			pathColor := color.New(color.FgCyan)
			valueColor := color.New(color.FgGreen)

			ctx, cancel := context.WithCancel(context.Background())
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt)
			go func() { <-sig; cancel() }()

			path := args[0]
			task := xenstore.Wait(ctx, c, "xsctl-watch", func(h xenstore.Handle) (struct{}, error) {
				v, err := xenstore.Read(ctx, h, path)
				if err != nil {
					return struct{}{}, err
				}
				pathColor.Fprint(out, path)
				out.Write([]byte(" = "))
				valueColor.Fprintln(out, v)
				return struct{}{}, xenstore.Again
			})

			_, err := task.Result()
			if err != nil && ctx.Err() == nil {
				exitOnError(err)
			}
		},
	}
}
