package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"spxh/assets"
	"spxh/config"
	"spxh/outpath"
	"spxh/state"
	"spxh/trace"
	"spxh/xdv"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

// writeTrace records specials and text into trace file placed in a new
// directory together with files.
func writeTrace(t *testing.T, files map[string]string, events func(ev xdv.Events) error) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	rec := trace.NewRecorder(&buf, nil)
	if err := rec.Header(xdv.Spx, nil); err != nil {
		t.Fatal(err)
	}
	if err := events(rec); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(dir, "doc.spx.ion")
	if err := os.WriteFile(src, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return src
}

func specials(list ...string) func(ev xdv.Events) error {
	return func(ev xdv.Events) error {
		for _, s := range list {
			var err error
			if text, ok := strings.CutPrefix(s, "text:"); ok {
				err = ev.TextAndGlyphs(1, text, 0, nil, nil, nil)
			} else {
				err = ev.Special(0, 0, []byte(s))
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
}

var sampleFiles = map[string]string{
	"tmpl/page.html": "<body>{{ .tduxRelTop }}|{{ .tduxContent }}</body>",
	"style.css":      "p {}",
}

var sampleTrace = specials(
	"tdux:provideSpecial font-css css/fonts.css",
	"tdux:setTemplate tmpl/page.html",
	"tdux:setOutputPath ch/one.html",
	"text:Hello",
	"tdux:as em",
	"text:world",
	"tdux:ae em",
	"tdux:emit",
	"tdux:provideFile style.css css/style.css",
	"tdux:contentFinished",
)

func TestProcess(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeTrace(t, sampleFiles, sampleTrace)
	dst := t.TempDir()
	env.SearchPaths = []string{filepath.Dir(src)}

	if err := process(ctx, env, src, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "ch", "one.html"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "<body>../|Hello<em>world</em></body>"; string(got) != want {
		t.Errorf("one.html = %q, want %q", got, want)
	}
	if data, err := os.ReadFile(filepath.Join(dst, "css", "style.css")); err != nil || string(data) != "p {}" {
		t.Errorf("style.css = %q (%v)", data, err)
	}
	if data, err := os.ReadFile(filepath.Join(dst, "css", "fonts.css")); err != nil || len(data) != 0 {
		t.Errorf("fonts.css = %q (%v), want empty", data, err)
	}
}

func TestProcess_Manifest(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Engine.DeferProvidedFiles = true
	src := writeTrace(t, sampleFiles, sampleTrace)
	dst := t.TempDir()
	env.SearchPaths = []string{filepath.Dir(src)}
	env.ManifestPath = filepath.Join(t.TempDir(), "assets.yaml")

	if err := process(ctx, env, src, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "css")); !os.IsNotExist(err) {
		t.Errorf("assets must not be materialized when manifest is saved, stat error = %v", err)
	}

	f, err := os.Open(env.ManifestPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	man, err := assets.ReadManifest(f)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if got := strings.Join(man.Paths(), ","); got != "css/fonts.css,css/style.css" {
		t.Errorf("manifest paths = %s", got)
	}
	if o := man["css/style.css"]; o.Kind != assets.OriginKindCopy || o.Source != "style.css" {
		t.Errorf("css/style.css origin = %+v", o)
	}
	if o := man["css/fonts.css"]; o.Kind != assets.OriginKindFontCss {
		t.Errorf("css/fonts.css origin = %+v", o)
	}
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name   string
		events func(ev xdv.Events) error
		is     error
	}{
		{
			name:   "traversal",
			events: specials("tdux:setTemplate tmpl/page.html", "tdux:setOutputPath ../escape.html", "tdux:emit"),
			is:     outpath.ErrIllegalPath,
		},
		{
			name: "canceled",
			events: func(ev xdv.Events) error {
				return nil
			},
			is: context.Canceled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, env := setupTestEnv(t)
			src := writeTrace(t, sampleFiles, tt.events)
			env.SearchPaths = []string{filepath.Dir(src)}
			if errors.Is(tt.is, context.Canceled) {
				var cancel context.CancelFunc
				ctx, cancel = context.WithCancel(ctx)
				cancel()
			}
			if err := process(ctx, env, src, t.TempDir(), env.Log); !errors.Is(err, tt.is) {
				t.Errorf("process() error = %v, want %v", err, tt.is)
			}
		})
	}
}
