package asf

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func intPtr(i int) *int          { return &i }
func f64Ptr(f float64) *float64  { return &f }

func sceneFeature(name string, temporal int, perpendicular float64) Feature {
	return Feature{
		Type: "Feature",
		Properties: Properties{
			SceneName:             name,
			FileID:                name + "-SLC",
			Platform:              "Sentinel-1A",
			BeamModeType:          "IW",
			FlightDirection:       "DESCENDING",
			ProcessingLevel:       "SLC",
			StartTime:             "2024-01-01T00:00:00.000000Z",
			StopTime:              "2024-01-01T00:00:28.000000Z",
			TemporalBaseline:      intPtr(temporal),
			PerpendicularBaseline: f64Ptr(perpendicular),
		},
	}
}

func TestClientSearchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/services/search/param") {
			t.Errorf("expected path /services/search/param, got %s", r.URL.Path)
		}

		response := FeatureCollection{
			Type:     "FeatureCollection",
			Features: []Feature{sceneFeature("S1A_IW_SLC__1SDV_20240101T000000", 0, 0)},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	params := SearchParams{
		Dataset:    []string{"SENTINEL-1"},
		MaxResults: 10,
	}

	result, err := client.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(result.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(result.Features))
	}

	props := result.Features[0].Properties
	if props.Platform != "Sentinel-1A" {
		t.Errorf("expected platform Sentinel-1A, got %s", props.Platform)
	}
	if props.BeamModeType != "IW" {
		t.Errorf("expected beamModeType IW, got %s", props.BeamModeType)
	}
}

func TestClientSearchQueryParams(t *testing.T) {
	var capturedURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(FeatureCollection{Type: "FeatureCollection"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)

	params := SearchParams{
		Platform:        []Platform{PlatformSentinel1},
		BeamMode:        []BeamMode{BeamModeIW},
		FlightDirection: FlightDirectionDescending,
		ProcessingLevel: []ProcessingLevel{ProcessingLevelSLC},
		RelativeOrbit:   []int{13},
		IntersectsWith:  "POLYGON((-122 37,-121 37,-121 38,-122 38,-122 37))",
		Start:           &start,
		End:             &end,
		MaxResults:      50,
	}

	if _, err := client.Search(context.Background(), params); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	expected := []string{
		"platform=SENTINEL-1",
		"beamMode=IW",
		"flightDirection=DESCENDING",
		"processingLevel=SLC",
		"relativeOrbit=13",
		"start=2021-01-01",
		"end=2021-12-31",
		"maxResults=50",
		"output=geojson",
		"intersectsWith=",
	}
	for _, param := range expected {
		if !strings.Contains(capturedURL, param) {
			t.Errorf("URL missing expected parameter %q: %s", param, capturedURL)
		}
	}
}

func TestClientSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.Search(context.Background(), SearchParams{})
	if err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should contain status code 500: %v", err)
	}
}

func TestClientSearchInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not valid json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.Search(context.Background(), SearchParams{})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode failure: %v", err)
	}
}

func TestClientSearchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if _, err := client.Search(ctx, SearchParams{}); err == nil {
		t.Fatal("expected context cancellation error, got nil")
	}
}

func TestClientBaselineStack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/services/search/baseline") {
			t.Errorf("expected baseline path, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("reference"); got != "REF_SCENE" {
			t.Errorf("expected reference=REF_SCENE, got %s", got)
		}

		response := FeatureCollection{
			Type: "FeatureCollection",
			Features: []Feature{
				sceneFeature("REF_SCENE", 0, 0),
				sceneFeature("SEC_SCENE_1", 12, 35.2),
				sceneFeature("SEC_SCENE_2", 24, -71.9),
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	fc, err := client.BaselineStack(context.Background(), "REF_SCENE")
	if err != nil {
		t.Fatalf("BaselineStack failed: %v", err)
	}

	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}

	sec := fc.Features[1].Properties
	if sec.TemporalBaseline == nil || *sec.TemporalBaseline != 12 {
		t.Errorf("expected temporal baseline 12, got %v", sec.TemporalBaseline)
	}
	if sec.PerpendicularBaseline == nil || *sec.PerpendicularBaseline != 35.2 {
		t.Errorf("expected perpendicular baseline 35.2, got %v", sec.PerpendicularBaseline)
	}
}

func TestClientBaselineStackEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(FeatureCollection{Type: "FeatureCollection"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.BaselineStack(context.Background(), "REF_SCENE")
	if err == nil {
		t.Fatal("expected error for empty stack, got nil")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("error should mention empty stack: %v", err)
	}
}

func TestClientBaselineStackMissingReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := FeatureCollection{
			Type:     "FeatureCollection",
			Features: []Feature{sceneFeature("OTHER_SCENE", 12, 10)},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.BaselineStack(context.Background(), "REF_SCENE")
	if err == nil {
		t.Fatal("expected error for missing reference, got nil")
	}
	if !strings.Contains(err.Error(), "reference") {
		t.Errorf("error should mention missing reference: %v", err)
	}
}

func TestClientGetScene(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("granule_list"); got != "SCENE-SLC" {
			t.Errorf("expected granule_list=SCENE-SLC, got %s", got)
		}

		raw := sceneFeature("SCENE", 0, 0)
		raw.Properties.FileID = "SCENE-RAW"
		slc := sceneFeature("SCENE", 0, 0)

		response := FeatureCollection{
			Type:     "FeatureCollection",
			Features: []Feature{raw, slc},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	feature, err := client.GetScene(context.Background(), "SCENE-SLC")
	if err != nil {
		t.Fatalf("GetScene failed: %v", err)
	}
	if feature.Properties.FileID != "SCENE-SLC" {
		t.Errorf("expected exact fileID match, got %s", feature.Properties.FileID)
	}
}

func TestClientGetSceneNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(FeatureCollection{Type: "FeatureCollection"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.GetScene(context.Background(), "NONEXISTENT")
	if err == nil {
		t.Fatal("expected error for missing scene, got nil")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should mention 'not found': %v", err)
	}
}

func TestPropertiesStartTimeParsed(t *testing.T) {
	p := Properties{StartTime: "2024-03-15T10:30:00.000000Z"}
	got := p.StartTimeParsed()

	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartTimeParsed = %v, want %v", got, want)
	}

	var empty Properties
	if !empty.StartTimeParsed().IsZero() {
		t.Error("expected zero time for empty start time")
	}
}
