// Command astrombr reads MBR batches (case count, then per case a shape count
// and that many shape lines) and prints one bounding rectangle per case.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Asteroidea-tn/asterombr/pkg/astrobatch"
	"github.com/Asteroidea-tn/asterombr/pkg/astrolog"
	"github.com/Asteroidea-tn/asterombr/pkg/astromail"
)

// newReporter and createOutput are swapped in tests.
var (
	newReporter  = astromail.NewReporter
	createOutput = func(path string) (io.WriteCloser, error) { return os.Create(path) }
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "astrombr:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("astrombr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inPath   = fs.String("in", "", "read the batch from `file` instead of stdin")
		outPath  = fs.String("out", "", "write results to `file` instead of stdout")
		envFile  = fs.String("env", "", "load settings from this .env `file`")
		workers  = fs.Int("workers", 0, "override MBR_WORKERS")
		failFast = fs.Bool("fail-fast", false, "stop at the first case that cannot be reduced")
		seal     = fs.String("encrypt-secret", "", "print `value` sealed with MBR_SECRET_KEY and exit")
		label    = fs.String("secret-for", "MBR_MAIL_PASSWORD", "env `key` the -encrypt-secret value will be stored under")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, crypt, err := loadConfig(files...)
	if err != nil {
		return err
	}

	if *seal != "" {
		if crypt == nil {
			return errors.New("-encrypt-secret needs MBR_SECRET_KEY")
		}
		sealed, err := crypt.Seal(*label, *seal)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, sealed)
		return err
	}

	logCfg := cfg.logConfig()
	logCfg.Console = stderr
	logger := astrolog.InitLogger(logCfg)

	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *failFast {
		cfg.Batch.FailFast = true
	}
	if cfg.Batch.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Batch.Timeout)
		defer cancel()
	}

	in := stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := stdout
	if *outPath != "" {
		f, err := createOutput(*outPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", *outPath, cerr)
			}
		}()
		out = f
	}

	mailCfg := cfg.mailConfig()
	var report bytes.Buffer
	if mailCfg.Enabled() {
		out = io.MultiWriter(out, &report)
	}

	runner, err := astrobatch.New(astrobatch.Options{
		Workers:           cfg.Batch.Workers,
		ParallelThreshold: cfg.Batch.ParallelThreshold,
		ParseCacheSize:    cfg.Batch.ParseCache,
		FailFast:          cfg.Batch.FailFast,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	sum, err := runner.Run(ctx, in, out)
	if err != nil {
		logger.Error().Err(err).Msg("batch failed")
		return err
	}

	if mailCfg.Enabled() {
		sendReport(logger, newReporter(mailCfg), sum, report.Bytes())
	}
	return nil
}

// sendReport never fails the run: the results are already written.
func sendReport(logger zerolog.Logger, r *astromail.Reporter, sum astrobatch.Summary, results []byte) {
	rep := astromail.Report{
		Subject: fmt.Sprintf("MBR batch: %d cases, %d failed", sum.Cases, sum.Failed),
		Body: fmt.Sprintf("cases: %d\nfailed: %d\nshapes: %d\nparse cache hits: %d\nelapsed: %s\n",
			sum.Cases, sum.Failed, sum.Shapes, sum.CacheHits, sum.Elapsed),
		AttachmentName: "results.txt",
		Attachment:     results,
	}
	if err := r.Send(rep); err != nil {
		logger.Warn().Err(err).Msg("mail report not sent")
		return
	}
	logger.Info().Int("cases", sum.Cases).Msg("mail report sent")
}
