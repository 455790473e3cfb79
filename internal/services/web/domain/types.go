package domain

import "context"

// MaxQueryLen bounds classify requests, in characters
const MaxQueryLen = 5000

// ClassifyRequest is the POST /classify body
type ClassifyRequest struct {
	Query string `json:"query" validate:"required,max=5000" example:"We need water and food"`
}

// LabelFlag is one category with its predicted flag
type LabelFlag struct {
	Category string `json:"category" example:"water"`
	Flag     int    `json:"flag"     example:"1"`
}

// Classification is a query with one flag per category, in table column order
type Classification struct {
	Query    string      `json:"query"    example:"We need water and food"`
	Labels   []LabelFlag `json:"labels"`
	Positive []string    `json:"positive" example:"related,water,food"`
}

// ClassifierPort classifies free text against the loaded model
type ClassifierPort interface {
	Classify(ctx context.Context, query string) (Classification, error)
	Categories() []string
	Charts() Charts
}
