package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"camsentry/internal/config"
	"camsentry/internal/models"
	"camsentry/internal/services/classifier"
	"camsentry/internal/services/fetcher"
	"camsentry/internal/services/pipeline"
)

type fakeLimiter struct {
	allow bool
	calls int
}

func (l *fakeLimiter) Allow(location string, now time.Time) bool {
	l.calls++
	return l.allow
}

type fakeFetcher struct {
	image []byte
	err   error
}

func (f fakeFetcher) Fetch(ctx context.Context, url string, creds *models.Credentials) ([]byte, error) {
	return f.image, f.err
}

type fakeClassifier struct {
	result models.ClassificationResult
	err    error
}

func (c fakeClassifier) Classify(ctx context.Context, image []byte, location string) (models.ClassificationResult, error) {
	return c.result, c.err
}

type fakeDispatcher struct{}

func (fakeDispatcher) Dispatch(ctx context.Context, location string, result models.ClassificationResult) {
}

func motionRouter(deps pipeline.Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewMotionHandler(pipeline.NewService(&config.Config{}, deps))
	router := gin.New()
	router.POST("/motion", handler.HandleMotion)
	return router
}

func postMotion(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/motion", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func workingDeps() pipeline.Deps {
	return pipeline.Deps{
		Limiter:    &fakeLimiter{allow: true},
		Fetcher:    fakeFetcher{image: []byte{0xFF, 0xD8}},
		Classifier: fakeClassifier{result: models.ClassificationResult{Detected: true, Description: "a person at the door"}},
		Dispatcher: fakeDispatcher{},
	}
}

func TestHandleMotionDetected(t *testing.T) {
	router := motionRouter(workingDeps())

	w := postMotion(t, router, `{"jpegUrl":"http://nvr.local/image/driveway","location":"driveway"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var resp models.MotionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != string(pipeline.StatusCompleted) {
		t.Errorf("Status = %q, want %q", resp.Status, pipeline.StatusCompleted)
	}
	if !resp.Detected {
		t.Error("Detected = false, want true")
	}
	if resp.Description != "a person at the door" {
		t.Errorf("Description = %q, want the classifier verdict", resp.Description)
	}
	if resp.Location != "driveway" {
		t.Errorf("Location = %q, want %q", resp.Location, "driveway")
	}
}

func TestHandleMotionCooldownSkip(t *testing.T) {
	deps := workingDeps()
	deps.Limiter = &fakeLimiter{allow: false}
	router := motionRouter(deps)

	w := postMotion(t, router, `{"jpegUrl":"http://nvr.local/image/driveway","location":"driveway"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp models.MotionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != string(pipeline.StatusSkippedCooldown) {
		t.Errorf("Status = %q, want %q", resp.Status, pipeline.StatusSkippedCooldown)
	}
	if resp.Detected {
		t.Error("Detected = true for a skipped event")
	}
}

func TestHandleMotionInvalidJSON(t *testing.T) {
	router := motionRouter(workingDeps())

	w := postMotion(t, router, `{`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleMotionMissingLocation(t *testing.T) {
	deps := workingDeps()
	limiter := &fakeLimiter{allow: true}
	deps.Limiter = limiter
	router := motionRouter(deps)

	w := postMotion(t, router, `{"jpegUrl":"http://nvr.local/image/driveway"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == "" {
		t.Error("error body is empty, want the validation message")
	}
	if limiter.calls != 0 {
		t.Error("rate limiter consulted for an invalid payload")
	}
}

func TestHandleMotionFetchFailure(t *testing.T) {
	deps := workingDeps()
	deps.Fetcher = fakeFetcher{err: &fetcher.Error{URL: "http://nvr.local/image/driveway", Reason: "request failed", Err: errors.New("connection refused")}}
	router := motionRouter(deps)

	w := postMotion(t, router, `{"jpegUrl":"http://nvr.local/image/driveway","location":"driveway"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
}

func TestHandleMotionClassifierFailure(t *testing.T) {
	deps := workingDeps()
	deps.Classifier = fakeClassifier{err: &classifier.Error{Model: "gemini-2.0-flash-exp", Err: errors.New("quota exhausted")}}
	router := motionRouter(deps)

	w := postMotion(t, router, `{"jpegUrl":"http://nvr.local/image/driveway","location":"driveway"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
}
