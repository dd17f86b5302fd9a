package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/diag"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [input...]",
	Short: "Coerce input files against a schema",
	Long: `Coerce each input file (or stdin when none is given, or for "-") against
the schema and print the results in order. Inputs that fail are reported on
stderr and make the command exit non-zero.`,
	RunE: runExecution,
}

func init() {
	runCmd.Flags().String("schema", "", "schema file (.json, .yaml or .yml)")
	runCmd.Flags().String("root", "", "definition to coerce against instead of the document root")
	runCmd.Flags().String("format", "json", "output format (json|yaml|msgpack)")
	runCmd.Flags().String("union", "", "union policy (first|rank)")
	runCmd.Flags().String("driver", "", "strict JSON driver (go-json|encoding/json)")
	runCmd.Flags().StringArray("alias", nil, "alias overload NAME.alias=target (repeatable)")
	runCmd.Flags().Int("jobs", runtime.GOMAXPROCS(0), "max parallel inputs")
	runCmd.Flags().Bool("warnings", false, "report warnings for inputs that succeed")
	runCmd.Flags().Bool("raw", false, "include the raw input in failure reports")
}

// input is one unit of work; name is the file path or "<stdin>".
type input struct {
	name string
	text string
}

type outcome struct {
	value any
	diags *diag.Diagnostics
	err   error
}

func runExecution(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	enc, err := newEncoder(strings.ToLower(format), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showWarnings, err := cmd.Flags().GetBool("warnings")
	if err != nil {
		return fmt.Errorf("failed to get warnings flag: %w", err)
	}
	showRaw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return fmt.Errorf("failed to get raw flag: %w", err)
	}

	if cfg.Schema == "" {
		return errors.New("no schema: pass --schema or set schema in coerce.toml")
	}
	doc, err := readSchema(cfg.schemaPath())
	if err != nil {
		return err
	}
	ds, err := cfg.buildDeserializer(doc)
	if err != nil {
		return err
	}

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	results, err := coerceAll(cmd.Context(), ds, inputs, jobs)
	if err != nil {
		return err
	}

	rep := newReporter(cmd.ErrOrStderr(), showRaw)
	failed := 0
	for i, r := range results {
		if r.err != nil {
			var de *diag.DeserializeError
			if !errors.As(r.err, &de) {
				return fmt.Errorf("%s: %w", inputs[i].name, r.err)
			}
			failed++
			rep.failure(inputs[i].name, de)
			continue
		}
		if showWarnings && r.diags != nil {
			rep.warnings(inputs[i].name, r.diags.Warnings())
		}
		if err := enc.encode(r.value); err != nil {
			return fmt.Errorf("failed to write result for %s: %w", inputs[i].name, err)
		}
	}
	if err := enc.close(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed to coerce", failed, len(inputs))
	}
	return nil
}

// resolveConfig layers explicitly set flags over the config file. Flags the
// command does not declare are skipped.
func resolveConfig(cmd *cobra.Command) (*config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"schema", &cfg.Schema},
		{"root", &cfg.Root},
		{"union", &cfg.Union},
		{"driver", &cfg.Load.Driver},
	} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		*f.dst = v
		if f.name == "schema" {
			cfg.dir = ""
		}
	}
	if cmd.Flags().Lookup("alias") == nil {
		return cfg, nil
	}
	aliases, err := cmd.Flags().GetStringArray("alias")
	if err != nil {
		return nil, fmt.Errorf("failed to get alias flag: %w", err)
	}
	for _, a := range aliases {
		name, alias, target, err := parseAliasFlag(a)
		if err != nil {
			return nil, err
		}
		cfg.addAlias(name, alias, target)
	}
	return cfg, nil
}

func readInputs(stdin io.Reader, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	inputs := make([]input, 0, len(args))
	readStdin := false
	for _, a := range args {
		if a == "-" {
			if readStdin {
				return nil, errors.New("stdin given more than once")
			}
			readStdin = true
			b, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			inputs = append(inputs, input{name: "<stdin>", text: string(b)})
			continue
		}
		b, err := os.ReadFile(a)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		inputs = append(inputs, input{name: a, text: string(b)})
	}
	return inputs, nil
}

// coerceAll runs ds over inputs with at most jobs in flight. Results keep
// input order. Only context cancellation aborts the group; per-input errors
// are carried in the outcome.
func coerceAll(ctx context.Context, ds *coerce.Deserializer, inputs []input, jobs int) ([]outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = 1
	}
	results := make([]outcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(inputs), 1)))
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			v, d, err := ds.CoerceWithDiagnostics(gctx, in.text)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			slog.Debug("coerced input", "input", in.name, "ok", err == nil)
			results[i] = outcome{value: v, diags: d, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type encoder interface {
	encode(v any) error
	close() error
}

func newEncoder(format string, w io.Writer) (encoder, error) {
	switch format {
	case "json":
		return &jsonEncoder{w: w}, nil
	case "yaml":
		return &yamlEncoder{enc: yaml.NewEncoder(w)}, nil
	case "msgpack":
		return &msgpackEncoder{enc: msgpack.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("unsupported format %q (must be json, yaml or msgpack)", format)
}

type jsonEncoder struct{ w io.Writer }

func (e *jsonEncoder) encode(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = e.w.Write(b)
	return err
}

func (e *jsonEncoder) close() error { return nil }

// yamlEncoder emits one document per input, separated by "---".
type yamlEncoder struct{ enc *yaml.Encoder }

func (e *yamlEncoder) encode(v any) error { return e.enc.Encode(v) }
func (e *yamlEncoder) close() error       { return e.enc.Close() }

// msgpackEncoder writes the values back to back.
type msgpackEncoder struct{ enc *msgpack.Encoder }

func (e *msgpackEncoder) encode(v any) error { return e.enc.Encode(v) }
func (e *msgpackEncoder) close() error       { return nil }
