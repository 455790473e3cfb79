package domain

import "context"

// RunnerPort loads, cleans and saves in one call
type RunnerPort interface {
	Run(ctx context.Context, in Input) (Stats, error)
}
