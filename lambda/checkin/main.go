package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/cognora/checkin-pipeline/app"
	"github.com/cognora/checkin-pipeline/config"
	"github.com/cognora/checkin-pipeline/logging"
	"github.com/cognora/checkin-pipeline/model"
	"github.com/cognora/checkin-pipeline/orchestrator"
)

type CheckInRequest struct {
	UserID     string `json:"user_id"`
	Date       string `json:"date,omitempty"`
	Transcript string `json:"transcript"`
	Context    string `json:"context,omitempty"`
	Source     string `json:"source,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type submitter interface {
	Submit(ctx context.Context, in orchestrator.CheckIn) (orchestrator.SubmitResult, error)
}

type handler struct {
	p   submitter
	log logrus.FieldLogger
}

func (h *handler) handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req CheckInRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON in request body", err.Error()), nil
	}
	if req.UserID == "" {
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required", ""), nil
	}
	src, err := model.ParseSource(req.Source)
	if err != nil {
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid source", err.Error()), nil
	}

	res, err := h.p.Submit(ctx, orchestrator.CheckIn{
		UserID:     req.UserID,
		Date:       req.Date,
		Transcript: req.Transcript,
		Context:    req.Context,
		Source:     src,
	})
	switch {
	case errors.Is(err, orchestrator.ErrMissingUser), errors.Is(err, orchestrator.ErrInvalidDate):
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), ""), nil
	case err != nil:
		h.log.WithError(err).Error("submit check-in")
		return createErrorResponse(http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to process check-in", err.Error()), nil
	}

	body, err := json.Marshal(res)
	if err != nil {
		return createErrorResponse(http.StatusInternalServerError, "SERIALIZATION_ERROR", "Failed to serialize response", err.Error()), nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func createErrorResponse(statusCode int, code, message, details string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(ErrorResponse{Error: message, Code: code, Details: details})
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.Pipeline.Log)

	// the store stays open for the lifetime of the execution environment
	p, _, err := app.Build(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Fatal("build pipeline")
	}
	h := &handler{p: p, log: log}
	lambda.Start(h.handle)
}
