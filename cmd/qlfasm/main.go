// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command qlfasm converts between FASM source and a device's binary
// bitstream container (§4.F, §6).
package main

import (
	"context"
	"errors"
	"os"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quicklogic-corp/qlfasm-go/lib/driver"
	"github.com/quicklogic-corp/qlfasm-go/lib/profile"
	"github.com/quicklogic-corp/qlfasm-go/lib/qlfdb"
	"github.com/quicklogic-corp/qlfasm-go/lib/textui"
)

func main() {
	logLevel := textui.LogLevelFlag{Level: dlog.LogLevelInfo}
	logBackend := textui.LogBackendFlag{}

	var (
		format                 string
		assembleFlag           bool
		disassembleFlag        bool
		dbRoot                 string
		deviceName             string
		unsetFeatures          bool
		noDefaultBitstream     bool
		defaultBitstreamPath   string
		defaultBitstreamFormat string
		noCRC                  bool
		noCheckCRC             bool
		defaultFasmOut         string
	)

	cmd := &cobra.Command{
		Use:   "qlfasm [flags] <input> <output>",
		Short: "Assemble FASM to a bitstream, or disassemble a bitstream to FASM",

		Args: cobra.MaximumNArgs(2),

		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	cmd.SetHelpTemplate(cliutil.HelpTemplate)
	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "4byte", "encoding of the binary side: `txt` or `4byte`")
	flags.BoolVarP(&assembleFlag, "assemble", "a", false, "force assemble mode")
	flags.BoolVarP(&disassembleFlag, "disassemble", "d", false, "force disassemble mode")
	flags.StringVar(&dbRoot, "db-root", "", "path to a device database directory")
	flags.StringVar(&deviceName, "device", "", "name of a bundled device database")
	flags.BoolVar(&unsetFeatures, "unset-features", false, "include zero-valued features in FASM output")
	flags.BoolVar(&noDefaultBitstream, "no-default-bitstream", false, "start assembly from an all-zero bit array")
	flags.StringVar(&defaultBitstreamPath, "default-bitstream", "", "override the device's default bitstream `path`")
	flags.StringVar(&defaultBitstreamFormat, "default-bitstream-format", "", "encoding of --default-bitstream: `txt` or `4byte`")
	flags.BoolVar(&noCRC, "no-crc", false, "disable checksum computation and validation entirely")
	flags.BoolVar(&noCheckCRC, "no-check-crc", false, "compute checksums on write, but only warn on mismatch when reading")
	flags.Var(&logLevel, "log-level", "set the log level: DEBUG, INFO, WARNING, ERROR, or CRITICAL")
	flags.Var(&logBackend, "log-backend", "log backend: `text` or `logrus`")
	flags.StringVar(&defaultFasmOut, "default-fasm", "", "disassemble the device's own default bitstream to `path`, ignoring <input>/<output>")
	stopProfiling := profile.AddProfileFlags(flags, "profile-")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctx = dlog.WithLogger(ctx, newLogger(logBackend, logLevel.Level))

		grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{EnableSignalHandling: true})
		grp.Go("main", func(ctx context.Context) error {
			return run(ctx, runArgs{
				Args:       args,
				DBRoot:     dbRoot,
				DeviceName: deviceName,
				Opts: driver.Options{
					Format:                 format,
					UnsetFeatures:          unsetFeatures,
					NoDefaultBitstream:     noDefaultBitstream,
					DefaultBitstreamPath:   defaultBitstreamPath,
					DefaultBitstreamFormat: defaultBitstreamFormat,
					Debug:                  logLevel.Level >= dlog.LogLevelDebug,
					CRC: driver.CrcPolicy{
						NoCRC:      noCRC,
						NoCheckCRC: noCheckCRC,
					},
				},
				AssembleFlag:    assembleFlag,
				DisassembleFlag: disassembleFlag,
				DefaultFasmOut:  defaultFasmOut,
			})
		})
		return grp.Wait()
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		_ = stopProfiling()
		code := 255
		var flagErr *driver.FlagMisuseError
		if errors.As(err, &flagErr) {
			code = 1
		}
		textui.Fprintf(os.Stderr, "qlfasm: error: %v\n", err)
		os.Exit(code)
	}
	if err := stopProfiling(); err != nil {
		textui.Fprintf(os.Stderr, "qlfasm: error: %v\n", err)
		os.Exit(255)
	}
}

type runArgs struct {
	Args            []string
	DBRoot          string
	DeviceName      string
	Opts            driver.Options
	AssembleFlag    bool
	DisassembleFlag bool
	DefaultFasmOut  string
}

func run(ctx context.Context, a runArgs) error {
	if a.DBRoot == "" && a.DeviceName == "" {
		return &driver.FlagMisuseError{Message: "one of --db-root or --device is required"}
	}
	dbPath := driver.ResolveDevicePath(a.DBRoot, a.DeviceName)
	dev, err := qlfdb.Load(ctx, dbPath)
	if err != nil {
		return err
	}

	if a.DefaultFasmOut != "" {
		return driver.DefaultFasm(ctx, dev, a.Opts, a.DefaultFasmOut)
	}

	if len(a.Args) != 2 {
		return &driver.FlagMisuseError{Message: "expected exactly <input> <output> positional arguments"}
	}
	inputPath, outputPath := a.Args[0], a.Args[1]

	assemble, err := driver.SelectMode(a.AssembleFlag, a.DisassembleFlag, inputPath)
	if err != nil {
		return err
	}
	if assemble {
		return driver.Assemble(ctx, dev, a.Opts, inputPath, outputPath)
	}
	return driver.Disassemble(ctx, dev, a.Opts, inputPath, outputPath)
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
