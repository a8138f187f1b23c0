package convert

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"spxh/engine"
	"spxh/hooks"
	"spxh/state"
	"spxh/trace"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert").With(zap.Stringer("run", env.RunID))

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input trace has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	// trace directory goes first so documents can carry their own templates
	env.SearchPaths = append([]string{filepath.Dir(src)}, env.Cfg.Engine.SearchPaths...)
	env.SearchPaths = append(env.SearchPaths, cmd.StringSlice("search")...)

	env.ManifestPath = cmd.String("manifest")
	if len(env.ManifestPath) == 0 && env.Cfg.Manifest.Save {
		env.ManifestPath = env.Cfg.Manifest.Path
	}
	if len(env.ManifestPath) > 0 {
		if env.ManifestPath, err = filepath.Abs(env.ManifestPath); err != nil {
			return err
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, env, src, dst, log)
}

// process replays trace src into a fresh engine writing results under dst.
// It is independent of CLI framework.
func process(ctx context.Context, env *state.LocalEnv, src, dst string, log *zap.Logger) (err error) {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open trace: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	sink := hooks.NewLogSink(log)
	c := &hooks.Common{
		Resolver: hooks.NewFSResolver(env.SearchPaths...),
		Sink:     sink,
		OutBase:  dst,
	}
	eng := engine.New(c, engine.Options{
		DefaultOutputPath:  env.Cfg.Engine.DefaultOutputPath,
		DeferProvidedFiles: env.Cfg.Engine.DeferProvidedFiles,
		EscapeText:         env.Cfg.Engine.EscapeText,
	}, log)

	defer func() {
		report(env, eng, sink)
		if sink.Warnings() > 0 {
			log.Warn("Conversion produced warnings", zap.Int("count", sink.Warnings()))
		}
	}()

	if err := trace.Replay(ctx, f, eng); err != nil {
		return err
	}
	if err := eng.Finished(); err != nil {
		return err
	}

	if len(env.ManifestPath) == 0 {
		return eng.EmitAssets()
	}

	var buf bytes.Buffer
	if _, err := eng.SerializeAssets().WriteTo(&buf); err != nil {
		return err
	}
	if err := hooks.WriteFile(env.ManifestPath, &buf); err != nil {
		return err
	}
	log.Info("Asset manifest saved", zap.String("path", env.ManifestPath))
	return nil
}

// report saves engine state and dependencies into debug report, if any.
func report(env *state.LocalEnv, eng *engine.Engine, sink *hooks.LogSink) {
	if env.Rpt == nil {
		return
	}
	prefix := "run-" + env.RunID.String()
	env.Rpt.StoreData(prefix+"/engine.txt", []byte(eng.Dump()))

	var inputs strings.Builder
	for _, in := range sink.Closed() {
		fmt.Fprintf(&inputs, "%s %s\n", hex.EncodeToString(in.Digest), in.Name)
	}
	env.Rpt.StoreData(prefix+"/inputs.txt", []byte(inputs.String()))

	var buf bytes.Buffer
	if _, err := eng.SerializeAssets().WriteTo(&buf); err == nil {
		env.Rpt.StoreData(prefix+"/assets.yaml", buf.Bytes())
	}
}
