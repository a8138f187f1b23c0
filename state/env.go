// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spxh/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// RunID identifies this invocation in logs and reports.
	RunID uuid.UUID

	// used by convert subcommand
	SearchPaths  []string
	ManifestPath string

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &LocalEnv{
		RunID: id,
		start: time.Now(),
	}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
