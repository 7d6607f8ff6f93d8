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

// Package command implements xsctl's subcommands, adapted from the
// teacher's etcdctl/ctlv3/command package: a GlobalFlags struct inherited
// by every subcommand, and a client built lazily from those flags. TLS,
// auth and endpoint-discovery flags are dropped since this client speaks to
// a single local transport with no such concerns.
package command

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ls-2018/xenstore"
	"github.com/ls-2018/xenstore/transport"
	"github.com/ls-2018/xenstore/transport/unixsock"
	"github.com/ls-2018/xenstore/transport/xenbus"
)

// GlobalFlags are flags defined globally and inherited by every subcommand,
// mirroring the teacher's GlobalFlags (etcdctl/ctlv3/command/global.go).
type GlobalFlags struct {
	SocketPath string
	UseXenbus  bool
	Timeout    time.Duration
	Debug      bool
	LogFile    string
}

var globalFlags GlobalFlags

// rootCmd is the xsctl entry point.
var rootCmd = &cobra.Command{
	Use:   "xsctl",
	Short: "Exercise the xenstore multiplexing client from the command line",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.SocketPath, "socket", "", "path to the xenstored unix socket (default "+unixsock.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.UseXenbus, "xenbus", false, "dial /dev/xen/xenbus instead of the unix socket")
	rootCmd.PersistentFlags().DurationVar(&globalFlags.Timeout, "timeout", 5*time.Second, "per-call timeout")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "rotate logs to this file instead of stderr")

	rootCmd.AddCommand(
		newReadCommand(),
		newWriteCommand(),
		newLsCommand(),
		newWatchCommand(),
		newWaitForCommand(),
		newTxnCommand(),
	)
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loggerFromFlags builds the zap logger every subcommand shares, optionally
// rotating to LogFile via lumberjack instead of writing to stderr.
func loggerFromFlags() *zap.Logger {
	level := zapcore.InfoLevel
	if globalFlags.Debug {
		level = zapcore.DebugLevel
	}

	var ws zapcore.WriteSyncer
	if globalFlags.LogFile != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   globalFlags.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	} else {
		ws = zapcore.AddSync(os.Stderr)
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, ws, level)
	return zap.New(core)
}

// mustClient dials the configured transport and opens a Client bound to
// it, following the teacher's mustClientFromCmd pattern of exiting the
// process on failure rather than threading an error up through cobra.
func mustClient(cmd *cobra.Command) *xenstore.Client {
	tr, err := dialTransport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "xsctl: %v\n", err)
		os.Exit(1)
	}
	return xenstore.Open(xenstore.Config{
		Transport: tr,
		Logger:    loggerFromFlags(),
	})
}

func dialTransport() (transport.Transport, error) {
	if globalFlags.UseXenbus {
		path := globalFlags.SocketPath
		if path == "" {
			path = xenbus.DefaultPath
		}
		return xenbus.Open(path)
	}
	return unixsock.Dial(globalFlags.SocketPath)
}
