// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type trainingArgs struct {
	Epochs       int     `help:"Number of passes over the data."`
	LearningRate float64 `aliases:"--lr"`
	DataPath     string  `aliases:"--data,-d" default:"./data/"`
	ExtraData    *string
	Cuda         bool     `default:"true"`
	Precision    any      `choices:"[32, 16, 8, bf16, tf32]" default:"32"`
	SomeListArg  []int    `default:"[1, 2, 3]"`
	EvalSets     []string `flag:"evaluation_datasets" choices:"[xnli, tydiqa, wikiann, squad]" default:"[xnli, wikiann]"`
	internal     int
}

type loggingArgs struct {
	LogDir      string   `default:"./logs"`
	LogBackends []string `choices:"[wandb, tensorboard, stdout]" default:"[wandb]"`
	LogLevel    string   `choices:"[debug, info, warning, error]" default:"info"`
}

func ptr[T any](v T) *T { return &v }

func defaultTraining() trainingArgs {
	return trainingArgs{
		Epochs:       3,
		LearningRate: 0.1,
		DataPath:     "./data/",
		Cuda:         true,
		Precision:    32,
		SomeListArg:  []int{1, 2, 3},
		EvalSets:     []string{"xnli", "wikiann"},
	}
}

var cmpTraining = cmp.AllowUnexported(trainingArgs{})

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(*trainingArgs)
	}{
		{
			name: "defaults",
			args: []string{"--epochs", "3", "--lr", "0.1"},
			want: func(*trainingArgs) {},
		},
		{
			name: "equals form",
			args: []string{"--epochs=3", "--learning_rate=0.1", "-d=/tmp/x"},
			want: func(a *trainingArgs) { a.DataPath = "/tmp/x" },
		},
		{
			name: "last occurrence wins across aliases",
			args: []string{"--epochs", "3", "--lr", "0.5", "--learning_rate", "0.1", "--data", "a", "-d", "b"},
			want: func(a *trainingArgs) { a.DataPath = "b" },
		},
		{
			name: "optional given",
			args: []string{"--epochs", "3", "--lr", "0.1", "--extra_data", "more"},
			want: func(a *trainingArgs) { a.ExtraData = ptr("more") },
		},
		{
			name: "negation",
			args: []string{"--epochs", "3", "--lr", "0.1", "--no_cuda"},
			want: func(a *trainingArgs) { a.Cuda = false },
		},
		{
			name: "bool with value",
			args: []string{"--epochs", "3", "--cuda", "No", "--lr", "0.1"},
			want: func(a *trainingArgs) { a.Cuda = false },
		},
		{
			name: "bool with equals value",
			args: []string{"--epochs", "3", "--lr", "0.1", "--cuda=t"},
			want: func(*trainingArgs) {},
		},
		{
			name: "int choice",
			args: []string{"--epochs", "3", "--lr", "0.1", "--precision", "16"},
			want: func(a *trainingArgs) { a.Precision = 16 },
		},
		{
			name: "string choice",
			args: []string{"--epochs", "3", "--lr", "0.1", "--precision", "bf16"},
			want: func(a *trainingArgs) { a.Precision = "bf16" },
		},
		{
			name: "list with negative numbers",
			args: []string{"--epochs", "3", "--some_list_arg", "4", "-5", "6", "--lr", "0.1"},
			want: func(a *trainingArgs) { a.SomeListArg = []int{4, -5, 6} },
		},
		{
			name: "repeated list accumulates",
			args: []string{"--epochs", "3", "--lr", "0.1", "--some_list_arg", "7", "--some_list_arg", "8"},
			want: func(a *trainingArgs) { a.SomeListArg = []int{7, 8} },
		},
		{
			name: "empty list falls back to default",
			args: []string{"--epochs", "3", "--some_list_arg", "--lr", "0.1"},
			want: func(*trainingArgs) {},
		},
		{
			name: "choice list",
			args: []string{"--epochs", "3", "--lr", "0.1", "--evaluation_datasets", "squad", "xnli"},
			want: func(a *trainingArgs) { a.EvalSets = []string{"squad", "xnli"} },
		},
		{
			name: "value spelled like a field name",
			args: []string{"--epochs", "3", "--lr", "0.1", "--data_path", "epochs"},
			want: func(a *trainingArgs) { a.DataPath = "epochs" },
		},
		{
			name: "alias value spelled like an alias",
			args: []string{"-d", "lr", "--epochs", "3", "--lr", "0.1"},
			want: func(a *trainingArgs) { a.DataPath = "lr" },
		},
		{
			name: "optional value spelled like a negation",
			args: []string{"--epochs", "3", "--lr", "0.1", "--extra_data", "no_cuda"},
			want: func(a *trainingArgs) { a.ExtraData = ptr("no_cuda") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs[trainingArgs](tt.args)
			if err != nil {
				t.Fatalf("ParseArgs failed: %v", err)
			}
			want := defaultTraining()
			tt.want(&want)
			if diff := cmp.Diff(&want, got, cmpTraining); diff != "" {
				t.Errorf("ParseArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, err error)
	}{
		{
			name: "missing required",
			args: []string{"--data", "x"},
			check: func(t *testing.T, err error) {
				var me *MissingArgsError
				if !errors.As(err, &me) {
					t.Fatalf("err = %v, want MissingArgsError", err)
				}
				if diff := cmp.Diff([]string{"--epochs", "--learning_rate"}, me.Flags); diff != "" {
					t.Errorf("Flags mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "bad int",
			args: []string{"--epochs", "three", "--lr", "0.1"},
			check: func(t *testing.T, err error) {
				var ve *ValueError
				if !errors.As(err, &ve) {
					t.Fatalf("err = %v, want ValueError", err)
				}
				if ve.Flag != "--epochs" || ve.Token != "three" || ve.Expected != "int" {
					t.Errorf("ValueError = %+v", ve)
				}
				if ve.Source != SourceCommandLine {
					t.Errorf("Source = %v, want %v", ve.Source, SourceCommandLine)
				}
			},
		},
		{
			name: "choice outside set",
			args: []string{"--epochs", "3", "--lr", "0.1", "--precision", "4"},
			check: func(t *testing.T, err error) {
				var ve *ValueError
				if !errors.As(err, &ve) {
					t.Fatalf("err = %v, want ValueError", err)
				}
				if want := "one of {32, 16, 8, bf16, tf32}"; ve.Expected != want {
					t.Errorf("Expected = %q, want %q", ve.Expected, want)
				}
			},
		},
		{
			name: "choice list outside set",
			args: []string{"--epochs", "3", "--lr", "0.1", "--evaluation_datasets", "xnli", "mnist"},
			check: func(t *testing.T, err error) {
				var ve *ValueError
				if !errors.As(err, &ve) || ve.Token != "mnist" {
					t.Fatalf("err = %v, want ValueError for mnist", err)
				}
			},
		},
		{
			name: "scalar without value",
			args: []string{"--lr", "0.1", "--epochs"},
			check: func(t *testing.T, err error) {
				var ve *ValueError
				if !errors.As(err, &ve) || ve.Flag != "--epochs" {
					t.Fatalf("err = %v, want ValueError for --epochs", err)
				}
				if !strings.Contains(err.Error(), "expected one argument") {
					t.Errorf("err = %q, want mention of expected one argument", err)
				}
			},
		},
		{
			name: "unknown flag",
			args: []string{"--epochs", "3", "--lr", "0.1", "--bogus"},
			check: func(t *testing.T, err error) {
				var ue *UnrecognizedArgsError
				if !errors.As(err, &ue) {
					t.Fatalf("err = %v, want UnrecognizedArgsError", err)
				}
				if diff := cmp.Diff([]string{"--bogus"}, ue.Args); diff != "" {
					t.Errorf("Args mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "stray token",
			args: []string{"--epochs", "3", "4", "--lr", "0.1"},
			check: func(t *testing.T, err error) {
				var ue *UnrecognizedArgsError
				if !errors.As(err, &ue) {
					t.Fatalf("err = %v, want UnrecognizedArgsError", err)
				}
			},
		},
		{
			name: "bool and negation",
			args: []string{"--epochs", "3", "--lr", "0.1", "--cuda", "--no_cuda"},
			check: func(t *testing.T, err error) {
				var fe *FlagConflictError
				if !errors.As(err, &fe) {
					t.Fatalf("err = %v, want FlagConflictError", err)
				}
				if fe.Flag != "--cuda" || fe.Negation != "--no_cuda" {
					t.Errorf("FlagConflictError = %+v", fe)
				}
			},
		},
		{
			name: "bare field name",
			args: []string{"epochs", "3", "--lr", "0.1"},
			check: func(t *testing.T, err error) {
				var ue *UnrecognizedArgsError
				if !errors.As(err, &ue) {
					t.Fatalf("err = %v, want UnrecognizedArgsError", err)
				}
				if diff := cmp.Diff([]string{"epochs", "3"}, ue.Args); diff != "" {
					t.Errorf("Args mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "single dash canonical name",
			args: []string{"-epochs", "3", "--epochs", "3", "--lr", "0.1"},
			check: func(t *testing.T, err error) {
				var ue *UnrecognizedArgsError
				if !errors.As(err, &ue) {
					t.Fatalf("err = %v, want UnrecognizedArgsError", err)
				}
				if diff := cmp.Diff([]string{"-epochs", "3"}, ue.Args); diff != "" {
					t.Errorf("Args mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "alias with extra dashes",
			args: []string{"--epochs", "3", "--lr", "0.1", "---data=x"},
			check: func(t *testing.T, err error) {
				var ue *UnrecognizedArgsError
				if !errors.As(err, &ue) {
					t.Fatalf("err = %v, want UnrecognizedArgsError", err)
				}
				if diff := cmp.Diff([]string{"---data=x"}, ue.Args); diff != "" {
					t.Errorf("Args mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "bad bool value",
			args: []string{"--epochs", "3", "--lr", "0.1", "--cuda=maybe"},
			check: func(t *testing.T, err error) {
				var ve *ValueError
				if !errors.As(err, &ve) || ve.Token != "maybe" {
					t.Fatalf("err = %v, want ValueError for maybe", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs[trainingArgs](tt.args)
			if err == nil {
				t.Fatalf("ParseArgs = %+v, want error", got)
			}
			tt.check(t, err)
		})
	}
}

func TestValuesSpelledLikeFlags(t *testing.T) {
	type args struct {
		Name string   `default:"x"`
		Tags []string `default:"[a]"`
		Mode string   `default:"m"`
	}
	tests := []struct {
		name string
		args []string
		want args
	}{
		{
			name: "list values",
			args: []string{"--tags", "name", "extra"},
			want: args{Name: "x", Tags: []string{"name", "extra"}, Mode: "m"},
		},
		{
			name: "list ends at next flag",
			args: []string{"--tags", "mode", "--mode", "tags"},
			want: args{Name: "x", Tags: []string{"mode"}, Mode: "tags"},
		},
		{
			name: "scalar value",
			args: []string{"--mode", "name"},
			want: args{Name: "x", Tags: []string{"a"}, Mode: "name"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs[args](tt.args)
			if err != nil {
				t.Fatalf("ParseArgs failed: %v", err)
			}
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Errorf("ParseArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := ParseArgs[args]([]string{"name", "y"})
	var ue *UnrecognizedArgsError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnrecognizedArgsError", err)
	}
	if diff := cmp.Diff([]string{"name", "y"}, ue.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKnown(t *testing.T) {
	got, rest, err := ParseKnownArgs[trainingArgs]([]string{
		"--epochs", "3", "--wandb_project", "demo", "--lr", "0.1", "--", "-x",
	})
	if err != nil {
		t.Fatalf("ParseKnownArgs failed: %v", err)
	}
	want := defaultTraining()
	if diff := cmp.Diff(&want, got, cmpTraining); diff != "" {
		t.Errorf("ParseKnownArgs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"--wandb_project", "demo", "--", "-x"}, rest); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}

	p, err := New([]any{trainingArgs{}, loggingArgs{}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	recs, rest, err := p.ParseKnown([]string{"--epochs", "3", "--lr", "0.1", "--log_level", "debug"})
	if err != nil {
		t.Fatalf("ParseKnown failed: %v", err)
	}
	if len(recs) != 2 || len(rest) != 0 {
		t.Errorf("ParseKnown = %d records, rest %q; want 2 records, no rest", len(recs), rest)
	}

	unknown := writeFile(t, "bad.args", "--epochs 1\n--lr 1\n--nope 2\n")
	_, _, err = ParseKnownArgs[trainingArgs]([]string{"--cfg", unknown})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("err = %v, want ConfigError for unknown flag in config file", err)
	}
}

func TestEmptyListWithoutDefault(t *testing.T) {
	type args struct {
		Items []int
	}
	_, err := ParseArgs[args]([]string{"--items"})
	var ve *ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValueError", err)
	}
	if !strings.Contains(err.Error(), "expected at least one value") {
		t.Errorf("err = %q, want mention of at least one value", err)
	}

	_, err = ParseArgs[args](nil)
	var me *MissingArgsError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want MissingArgsError", err)
	}
}

func TestParseArgs2(t *testing.T) {
	train, logs, err := ParseArgs2[trainingArgs, loggingArgs]([]string{
		"--epochs", "3", "--log_backends", "stdout", "tensorboard", "--lr", "0.1", "--log_level", "debug",
	})
	if err != nil {
		t.Fatalf("ParseArgs2 failed: %v", err)
	}
	want := defaultTraining()
	if diff := cmp.Diff(&want, train, cmpTraining); diff != "" {
		t.Errorf("training mismatch (-want +got):\n%s", diff)
	}
	wantLogs := &loggingArgs{
		LogDir:      "./logs",
		LogBackends: []string{"stdout", "tensorboard"},
		LogLevel:    "debug",
	}
	if diff := cmp.Diff(wantLogs, logs); diff != "" {
		t.Errorf("logging mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArgs3(t *testing.T) {
	type extra struct {
		Seed int `default:"7"`
	}
	_, _, ex, err := ParseArgs3[trainingArgs, loggingArgs, extra]([]string{"--epochs", "1", "--lr", "1"})
	if err != nil {
		t.Fatalf("ParseArgs3 failed: %v", err)
	}
	if ex.Seed != 7 {
		t.Errorf("Seed = %d, want %d", ex.Seed, 7)
	}
}

func TestParserRecordOrder(t *testing.T) {
	p, err := New([]any{loggingArgs{}, &trainingArgs{}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	recs, err := p.Parse([]string{"--epochs", "1", "--lr", "1"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if _, ok := recs[0].(*loggingArgs); !ok {
		t.Errorf("recs[0] = %T, want *loggingArgs", recs[0])
	}
	if _, ok := recs[1].(*trainingArgs); !ok {
		t.Errorf("recs[1] = %T, want *trainingArgs", recs[1])
	}
}

func TestDefaultsAreNotShared(t *testing.T) {
	p, err := New([]any{trainingArgs{}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	args := []string{"--epochs", "1", "--lr", "1"}
	first, err := p.Parse(args)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	first[0].(*trainingArgs).SomeListArg[0] = 99
	second, err := p.Parse(args)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := second[0].(*trainingArgs).SomeListArg[0]; got != 1 {
		t.Errorf("SomeListArg[0] = %d, want 1", got)
	}
}

func TestMixedChoices(t *testing.T) {
	type args struct {
		Mode   any      `choices:"['16', 16, 2.5, true]"`
		Ratio  float64  `choices:"[0.5, 1, 2.5]" default:"1"`
		Device *string  `choices:"[cpu, cuda]"`
		Bits   []uint8  `choices:"[8, 16]" default:"8 16"`
		Null   *int     `choices:"[1, null]" default:"1"`
		Levels []string `choices:"[a, b]" default:"[]"`
	}
	tests := []struct {
		name string
		args []string
		want args
	}{
		{
			name: "first declared type wins",
			args: []string{"--mode", "16"},
			want: args{Mode: "16", Ratio: 1, Bits: []uint8{8, 16}, Null: ptr(1), Levels: []string{}},
		},
		{
			name: "float literal",
			args: []string{"--mode", "2.5", "--ratio", "0.5", "--device", "cuda"},
			want: args{Mode: 2.5, Ratio: 0.5, Device: ptr("cuda"), Bits: []uint8{8, 16}, Null: ptr(1), Levels: []string{}},
		},
		{
			name: "bool literal and null",
			args: []string{"--mode", "true", "--null", "null", "--bits", "16"},
			want: args{Mode: true, Ratio: 1, Bits: []uint8{16}, Levels: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs[args](tt.args)
			if err != nil {
				t.Fatalf("ParseArgs failed: %v", err)
			}
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Errorf("ParseArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSkippedField(t *testing.T) {
	type args struct {
		Name   string `default:"x"`
		Hidden string `flag:"-"`
	}
	_, err := ParseArgs[args]([]string{"--hidden", "y"})
	var ue *UnrecognizedArgsError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnrecognizedArgsError", err)
	}
}

func TestFlagOverride(t *testing.T) {
	type args struct {
		NumWorkers int `flag:"workers" aliases:"-j" default:"1"`
	}
	got, err := ParseArgs[args]([]string{"-j", "8"})
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if got.NumWorkers != 8 {
		t.Errorf("NumWorkers = %d, want 8", got.NumWorkers)
	}
	if _, err := ParseArgs[args]([]string{"--num_workers", "8"}); err == nil {
		t.Errorf("--num_workers accepted, want error")
	}
}

func TestTrace(t *testing.T) {
	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	if _, err := ParseArgs[trainingArgs]([]string{"--epochs", "1", "--lr", "1"}, WithLogf(logf)); err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"dargs: --epochs from command line",
		"dargs: --data_path from default",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("trace missing %q in:\n%s", want, joined)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestConfigFiles(t *testing.T) {
	lines := writeFile(t, "train.args", "--epochs 5\n\n--learning_rate 0.5\n--cuda false\n--some_list_arg 9 8\n")
	tomlPath := writeFile(t, "train.toml", "epochs = 6\nprecision = \"tf32\"\nevaluation_datasets = [\"squad\"]\n")
	yamlPath := writeFile(t, "train.yaml", "epochs: 7\ndata_path: /mnt/data\nno_cuda: true\n")

	tests := []struct {
		name string
		args []string
		want func(*trainingArgs)
	}{
		{
			name: "line format",
			args: []string{"--cfg", lines},
			want: func(a *trainingArgs) {
				a.Epochs, a.LearningRate, a.Cuda, a.SomeListArg = 5, 0.5, false, []int{9, 8}
			},
		},
		{
			name: "command line wins",
			args: []string{"--epochs", "42", "--cfg", lines},
			want: func(a *trainingArgs) {
				a.Epochs, a.LearningRate, a.Cuda, a.SomeListArg = 42, 0.5, false, []int{9, 8}
			},
		},
		{
			name: "later file wins",
			args: []string{"--cfg", lines, "--cfg=" + tomlPath},
			want: func(a *trainingArgs) {
				a.Epochs, a.LearningRate, a.Cuda, a.SomeListArg = 6, 0.5, false, []int{9, 8}
				a.Precision = "tf32"
				a.EvalSets = []string{"squad"}
			},
		},
		{
			name: "yaml",
			args: []string{"--cfg", yamlPath, "--lr", "0.1"},
			want: func(a *trainingArgs) {
				a.Epochs, a.DataPath, a.Cuda = 7, "/mnt/data", false
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs[trainingArgs](tt.args)
			if err != nil {
				t.Fatalf("ParseArgs failed: %v", err)
			}
			want := defaultTraining()
			tt.want(&want)
			if diff := cmp.Diff(&want, got, cmpTraining); diff != "" {
				t.Errorf("ParseArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigErrors(t *testing.T) {
	unknown := writeFile(t, "bad.args", "--epochs 1\n--lr 1\n--nope 2\n")
	malformed := writeFile(t, "bad2.args", "--epochs 1\nlr 1\n")
	badValue := writeFile(t, "bad3.args", "--epochs one\n--lr 1\n")

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseArgs[trainingArgs]([]string{"--cfg", filepath.Join(t.TempDir(), "nope.args")})
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want ConfigError", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want wrapping os.ErrNotExist", err)
		}
	})
	t.Run("unknown flag", func(t *testing.T) {
		_, err := ParseArgs[trainingArgs]([]string{"--cfg", unknown})
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want ConfigError", err)
		}
		var ue *UnrecognizedArgsError
		if !errors.As(err, &ue) {
			t.Errorf("err = %v, want wrapping UnrecognizedArgsError", err)
		}
	})
	t.Run("malformed line", func(t *testing.T) {
		_, err := ParseArgs[trainingArgs]([]string{"--cfg", malformed})
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want ConfigError", err)
		}
		if ce.Line != 2 {
			t.Errorf("Line = %d, want 2", ce.Line)
		}
	})
	t.Run("bad value", func(t *testing.T) {
		_, err := ParseArgs[trainingArgs]([]string{"--cfg", badValue})
		var ve *ValueError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValueError", err)
		}
		if ve.Source != SourceConfig {
			t.Errorf("Source = %v, want %v", ve.Source, SourceConfig)
		}
	})
	t.Run("flag without path", func(t *testing.T) {
		_, err := ParseArgs[trainingArgs]([]string{"--epochs", "1", "--lr", "1", "--cfg"})
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want ConfigError", err)
		}
	})
}

func TestConfigFlagOption(t *testing.T) {
	path := writeFile(t, "train.args", "--epochs 5\n--lr 2\n")

	got, err := ParseArgs[trainingArgs]([]string{"--config", path}, WithConfigFlag("config"))
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if got.Epochs != 5 {
		t.Errorf("Epochs = %d, want 5", got.Epochs)
	}

	_, err = ParseArgs[trainingArgs]([]string{"--cfg", path}, WithConfigFlag(""))
	var ue *UnrecognizedArgsError
	if !errors.As(err, &ue) {
		t.Errorf("err = %v, want UnrecognizedArgsError with config files disabled", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	base := writeFile(t, "train.args", "--epochs 5\n--lr 2\n--no_cuda\n")
	override := writeFile(t, "override.args", "--epochs 6\n")

	tests := []struct {
		name string
		args []string
		want func(*trainingArgs)
	}{
		{
			name: "default file only",
			args: nil,
			want: func(a *trainingArgs) { a.Epochs, a.LearningRate, a.Cuda = 5, 2, false },
		},
		{
			name: "cfg file wins",
			args: []string{"--cfg", override},
			want: func(a *trainingArgs) { a.Epochs, a.LearningRate, a.Cuda = 6, 2, false },
		},
		{
			name: "command line wins",
			args: []string{"--cfg", override, "--epochs", "7", "--cuda"},
			want: func(a *trainingArgs) { a.Epochs, a.LearningRate = 7, 2 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs[trainingArgs](tt.args, WithDefaultConfig(base))
			if err != nil {
				t.Fatalf("ParseArgs failed: %v", err)
			}
			want := defaultTraining()
			tt.want(&want)
			if diff := cmp.Diff(&want, got, cmpTraining); diff != "" {
				t.Errorf("ParseArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}

	missing := filepath.Join(t.TempDir(), "train.args")
	got, err := ParseArgs[trainingArgs]([]string{"--epochs", "3", "--lr", "0.1"}, WithDefaultConfig(missing))
	if err != nil {
		t.Fatalf("ParseArgs with missing default config failed: %v", err)
	}
	if got.Epochs != 3 {
		t.Errorf("Epochs = %d, want 3", got.Epochs)
	}

	malformed := writeFile(t, "bad.args", "epochs 1\n")
	_, err = ParseArgs[trainingArgs](nil, WithDefaultConfig(malformed))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("err = %v, want ConfigError for malformed default config", err)
	}
}

func TestTextScalars(t *testing.T) {
	type args struct {
		Timeout  time.Duration `default:"30s"`
		Endpoint url.URL       `default:"https://example.com/api"`
	}
	got, err := ParseArgs[args]([]string{"--timeout", "1m30s"})
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if got.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want %v", got.Timeout, 90*time.Second)
	}
	if got := got.Endpoint.String(); got != "https://example.com/api" {
		t.Errorf("Endpoint = %q, want %q", got, "https://example.com/api")
	}
}

func TestTextUnmarshalers(t *testing.T) {
	type args struct {
		RunID      uuid.UUID
		MinVersion *semver.Version
		Channels   []semver.Version `default:"[1.0.0, 2.1.0]"`
	}
	id := uuid.MustParse("6f1c2a52-0c3e-4a57-9d0b-7f1e4f6b2a10")
	got, err := ParseArgs[args]([]string{"--run_id", id.String(), "--min_version", "1.2.3"})
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if got.RunID != id {
		t.Errorf("RunID = %v, want %v", got.RunID, id)
	}
	if got.MinVersion == nil || got.MinVersion.String() != "1.2.3" {
		t.Errorf("MinVersion = %v, want 1.2.3", got.MinVersion)
	}
	if len(got.Channels) != 2 || got.Channels[1].String() != "2.1.0" {
		t.Errorf("Channels = %v, want [1.0.0 2.1.0]", got.Channels)
	}

	_, err = ParseArgs[args]([]string{"--run_id", "not-a-uuid"})
	var ve *ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValueError", err)
	}
	if ve.Expected != "uuid.UUID" {
		t.Errorf("Expected = %q, want %q", ve.Expected, "uuid.UUID")
	}
}
