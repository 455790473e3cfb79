package domain

import "context"

// RunnerPort trains, evaluates and saves a model
type RunnerPort interface {
	Run(ctx context.Context, opts Options) (Result, error)
}
