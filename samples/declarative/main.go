// Copyright (c) Microsoft. All rights reserved.

// Command declarative loads a workflow from a YAML file and runs it.
//
// Usage:
//
//	go run . workflow.yaml "hello world"
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/microsoft/agent-workflow/go/workflow"
)

func main() {
	path := "workflow.yaml"
	input := "hello world"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if len(os.Args) > 2 {
		input = os.Args[2]
	}

	reg := workflow.NewRegistry()

	must(reg.Register("uppercase", func(id string, with map[string]any) (*workflow.Executor, error) {
		return workflow.NewExecutorFunc(id,
			func(ctx context.Context, s string, wc *workflow.Context[string]) error {
				return wc.Send(ctx, strings.ToUpper(s))
			}), nil
	}))

	must(reg.Register("prefix", func(id string, with map[string]any) (*workflow.Executor, error) {
		prefix, _ := with["value"].(string)
		return workflow.NewExecutorFunc(id,
			func(ctx context.Context, s string, wc *workflow.Context[string]) error {
				return wc.Send(ctx, prefix+s)
			}), nil
	}))

	must(reg.Register("split", func(id string, with map[string]any) (*workflow.Executor, error) {
		return workflow.NewExecutorFunc(id,
			func(ctx context.Context, s string, wc *workflow.Context[string]) error {
				for _, word := range strings.Fields(s) {
					if err := wc.Send(ctx, word); err != nil {
						return err
					}
				}
				return nil
			}), nil
	}))

	w, err := workflow.LoadWorkflow(path, reg)
	if err != nil {
		log.Fatalf("load %s: %v", path, err)
	}

	result, err := w.Run(context.Background(), input)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	for _, out := range result.Outputs {
		fmt.Println(out)
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
