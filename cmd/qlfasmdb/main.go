// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command qlfasmdb builds a qlfdb-layout device database from a
// fabric's per-bit XML dump (§4.G).
package main

import (
	"context"
	"os"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quicklogic-corp/qlfasm-go/lib/dbbuilder"
	"github.com/quicklogic-corp/qlfasm-go/lib/profile"
	"github.com/quicklogic-corp/qlfasm-go/lib/textui"
)

func main() {
	logLevel := textui.LogLevelFlag{Level: dlog.LogLevelInfo}
	logBackend := textui.LogBackendFlag{}
	var debugDump bool

	cmd := &cobra.Command{
		Use:   "qlfasmdb [flags] <fabric_bitstream.xml> <out-dir>",
		Short: "Build a device database from a fabric_bitstream XML dump",

		Args: cobra.ExactArgs(2),

		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	cmd.SetHelpTemplate(cliutil.HelpTemplate)
	flags := cmd.Flags()
	flags.Var(&logLevel, "log-level", "set the log level: DEBUG, INFO, WARNING, ERROR, or CRITICAL")
	flags.Var(&logBackend, "log-backend", "log backend: `text` or `logrus`")
	flags.BoolVar(&debugDump, "debug-dump", false, "dump the built in-memory database to stderr before writing it")
	stopProfiling := profile.AddProfileFlags(flags, "profile-")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctx = dlog.WithLogger(ctx, newLogger(logBackend, logLevel.Level))

		grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{EnableSignalHandling: true})
		grp.Go("main", func(ctx context.Context) error {
			return run(ctx, args[0], args[1], debugDump)
		})
		return grp.Wait()
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		_ = stopProfiling()
		textui.Fprintf(os.Stderr, "qlfasmdb: error: %v\n", err)
		os.Exit(255)
	}
	if err := stopProfiling(); err != nil {
		textui.Fprintf(os.Stderr, "qlfasmdb: error: %v\n", err)
		os.Exit(255)
	}
}

func run(ctx context.Context, xmlPath, outDir string, debugDump bool) error {
	f, err := os.Open(xmlPath)
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := dbbuilder.Build(ctx, f)
	if err != nil {
		return err
	}
	dlog.Infof(ctx, "built database: %d region(s), %d tile(s), %d routing block(s), %d feature table(s)",
		len(db.Regions), len(db.Tiles), len(db.Routing), len(db.Features))

	if debugDump {
		cfg := spew.NewDefaultConfig()
		cfg.DisablePointerAddresses = true
		cfg.Fdump(os.Stderr, db)
	}

	return dbbuilder.Write(ctx, outDir, db)
}

// newLogger builds the dlog.Logger for the selected --log-backend: the
// package's own formatter, or a logrus.Logger wrapped via dlog.WrapLogrus.
func newLogger(backend textui.LogBackendFlag, lvl dlog.LogLevel) dlog.Logger {
	if !backend.IsLogrus() {
		return textui.NewLogger(os.Stderr, lvl)
	}
	logger := logrus.New()
	logger.SetLevel(logrusLevel(lvl))
	return dlog.WrapLogrus(logger)
}

// logrusLevel converts a dlog.LogLevel to its logrus.Level equivalent.
func logrusLevel(lvl dlog.LogLevel) logrus.Level {
	switch lvl {
	case dlog.LogLevelError:
		return logrus.ErrorLevel
	case dlog.LogLevelWarn:
		return logrus.WarnLevel
	case dlog.LogLevelInfo:
		return logrus.InfoLevel
	case dlog.LogLevelDebug:
		return logrus.DebugLevel
	case dlog.LogLevelTrace:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}
