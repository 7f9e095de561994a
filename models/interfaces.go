package models

import "context"

type PredictionClient interface {
	Predict(ctx context.Context, input PredictionInput) (*PredictionResponse, error)
}
