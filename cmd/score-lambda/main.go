package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/scoring"
)

type ScoreRequest struct {
	ClickCount int64   `json:"click_count"`
	Cost       float64 `json:"cost"`
	Source     string  `json:"source"`
}

type ScoreResponse struct {
	RawScore float64 `json:"raw_score"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
}

func HandleRequest(_ context.Context, request ScoreRequest) (ScoreResponse, error) {
	if request.ClickCount < 0 {
		return ScoreResponse{}, fmt.Errorf("click_count must not be negative")
	}
	if request.Cost < 0 {
		return ScoreResponse{}, fmt.Errorf("cost must not be negative")
	}

	return ScoreResponse{
		RawScore: scoring.Raw(request.ClickCount, request.Cost, request.Source),
		Score:    scoring.Compute(request.ClickCount, request.Cost, request.Source),
		Weight:   scoring.Weight(request.Source),
	}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
