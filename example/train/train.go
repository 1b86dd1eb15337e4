// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command train shows two argument records sharing one command line:
//
//	go run ./example/train --epochs 3 --lr 1e-4 --precision bf16 --no_cuda
//	go run ./example/train --cfg train.toml --log_backends stdout wandb
package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/yeetrun/dargs/pkg/cli"
	"github.com/yeetrun/dargs/pkg/dargs"
)

type TrainingArgs struct {
	Epochs       int       `help:"Number of passes over the training data."`
	LearningRate float64   `aliases:"--lr" help:"Required argument (no default)."`
	DataPath     string    `aliases:"--data,-d" default:"./data/" help:"Directory holding the training data."`
	ExtraData    *string   `help:"Optional second dataset."`
	Cuda         bool      `default:"true" help:"Train on the GPU."`
	Precision    any       `choices:"[32, 16, 8, bf16, tf32]" default:"32" help:"Numeric precision for training."`
	SomeListArg  []int     `default:"[1, 2, 3]"`
	EvalDatasets []string  `flag:"evaluation_datasets" choices:"[xnli, tydiqa, wikiann, squad]" default:"[xnli, wikiann]"`
	RunID        uuid.UUID `default:"00000000-0000-0000-0000-000000000000" help:"Identifier attached to every logged metric."`
}

type LoggingArgs struct {
	LogDir      string   `default:"./logs"`
	LogBackends []string `choices:"[wandb, tensorboard, stdout]" default:"[wandb]"`
	LogLevel    string   `choices:"[debug, info, warning, error]" default:"info"`
}

func main() {
	log.SetFlags(0)
	train, logging := cli.Must2(dargs.ParseArgs2[TrainingArgs, LoggingArgs](
		os.Args[1:],
		dargs.WithDescription("Train a model. Arguments may also come from --cfg files or a train.args file next to the binary."),
		dargs.WithDefaultConfig(dargs.ProgramArgsFile()),
	))
	if train.RunID == uuid.Nil {
		train.RunID = uuid.New()
	}
	log.Printf("training: %+v", *train)
	log.Printf("logging: %+v", *logging)
	if train.ExtraData != nil {
		log.Printf("extra data: %s", *train.ExtraData)
	}
	switch p := train.Precision.(type) {
	case int:
		log.Printf("precision: %d-bit", p)
	case string:
		log.Printf("precision: %s", p)
	}
}
